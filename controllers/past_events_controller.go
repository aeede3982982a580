package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/ieee-vbit/registration-backend-go/config"
	models "github.com/ieee-vbit/registration-backend-go/models"
	utils "github.com/ieee-vbit/registration-backend-go/utils"
)

// pastEventSlots is how many gallery entries one submission may carry.
const pastEventSlots = 3

// ---------------- CREATE ----------------
// Accepts up to three filled slots per submission; empty slots are
// skipped, filled ones need title, date and a poster.
func CreatePastEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}

		col := cfg.DB().Collection("pastEvents")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var saved []models.PastEvent
		for i := 1; i <= pastEventSlots; i++ {
			title := c.PostForm(fmt.Sprintf("title_%d", i))
			date := c.PostForm(fmt.Sprintf("date_%d", i))
			posters := form.File[fmt.Sprintf("poster_%d", i)]
			if title == "" || date == "" || len(posters) == 0 {
				continue
			}

			file, err := posters[0].Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to open poster for slot %d", i)})
				return
			}
			url, err := utils.UploadPastEventPoster(file, posters[0], i)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("error uploading slot %d", i), "details": err.Error()})
				return
			}

			entry := models.PastEvent{
				ID:        primitive.NewObjectID(),
				Title:     title,
				Date:      date,
				PosterURL: url,
				CreatedAt: time.Now(),
			}
			if _, err := col.InsertOne(ctx, entry); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save past event"})
				return
			}
			saved = append(saved, entry)
		}

		c.JSON(http.StatusCreated, gin.H{"saved": len(saved), "past_events": saved})
	}
}

// ---------------- LIST ----------------
func ListPastEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.DB().Collection("pastEvents")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.M{"createdAt": -1})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch past events"})
			return
		}

		var events []models.PastEvent
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode past events"})
			return
		}
		if events == nil {
			events = []models.PastEvent{}
		}

		c.JSON(http.StatusOK, events)
	}
}

// ---------------- DELETE ----------------
func DeletePastEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid past event id"})
			return
		}

		col := cfg.DB().Collection("pastEvents")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete past event"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "past event not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "past event removed", "id": oid.Hex()})
	}
}
