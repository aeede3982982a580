package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/ieee-vbit/registration-backend-go/config"
	models "github.com/ieee-vbit/registration-backend-go/models"
	"github.com/ieee-vbit/registration-backend-go/registration"
)

func loadEvent(ctx context.Context, cfg *config.Config, idParam string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return nil, errors.New("invalid event id")
	}
	var event models.Event
	if err := cfg.DB().Collection("events").FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
		return nil, errors.New("event not found")
	}
	return &event, nil
}

// ---------------- LIST ----------------
func ListRegistrations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		event, err := loadEvent(ctx, cfg, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		col := cfg.DB().Collection(registration.CollectionFor(event))
		opts := options.Find().SetSort(bson.M{"timeStamp": -1})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch registrations"})
			return
		}

		var records []models.Registration
		if err := cursor.All(ctx, &records); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode registrations"})
			return
		}
		if records == nil {
			records = []models.Registration{}
		}

		c.JSON(http.StatusOK, gin.H{
			"event_name":    event.EventName,
			"collection":    registration.CollectionFor(event),
			"registrations": records,
		})
	}
}

// ---------------- CSV EXPORT ----------------
func ExportRegistrations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		event, err := loadEvent(ctx, cfg, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		col := cfg.DB().Collection(registration.CollectionFor(event))
		opts := options.Find().SetSort(bson.M{"timeStamp": -1})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch registrations"})
			return
		}

		// bson.D keeps document field order for the header row
		var docs []bson.D
		if err := cursor.All(ctx, &docs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode registrations"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+registration.ExportFileName(event)+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(registration.ExportCSV(docs)))
	}
}

// ---------------- VERIFY ----------------
// One-way transition to verified, followed by the confirmation mail.
func VerifyRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		event, err := loadEvent(ctx, cfg, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		store := registration.NewMongoStore(cfg.DB())
		task, err := registration.Verify(ctx, store, event, registration.CollectionFor(event), c.Param("regId"))
		if err != nil {
			var noRecipient *registration.NoRecipientError
			switch {
			case errors.Is(err, registration.ErrInvalidID):
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
			case errors.Is(err, mongo.ErrNoDocuments):
				c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
			case errors.Is(err, registration.ErrAlreadyVerified):
				c.JSON(http.StatusConflict, gin.H{"error": "registration already verified"})
			case errors.As(err, &noRecipient):
				// The status flip has already landed; the record is
				// verified but unnotified and needs manual follow-up.
				log.Error().Str("registration", c.Param("regId")).Msg("verified but no recipient email found")
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				log.Error().Err(err).Str("registration", c.Param("regId")).Msg("verification failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "verification successful, confirmation email queued",
			"recipients": task.To,
		})
	}
}
