package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/ieee-vbit/registration-backend-go/config"
	"github.com/ieee-vbit/registration-backend-go/formplan"
	models "github.com/ieee-vbit/registration-backend-go/models"
	"github.com/ieee-vbit/registration-backend-go/registration"
	utils "github.com/ieee-vbit/registration-backend-go/utils"
)

// eventInput is the multipart form shape shared by create and update.
type eventInput struct {
	EventName           string  `form:"event_name" binding:"required"`
	Description         string  `form:"description"`
	EventAudience       string  `form:"event_audience" binding:"required"`
	ParticipationType   string  `form:"participation_type" binding:"required"`
	MinTeamSize         int     `form:"min_team_size"`
	MaxTeamSize         int     `form:"max_team_size"`
	PaymentsEnabled     bool    `form:"payments_enabled"`
	StudentFee          float64 `form:"student_fee"`
	FacultyFee          float64 `form:"faculty_fee"`
	PaymentInstructions string  `form:"payment_instructions"`
	UpiID               string  `form:"upi_id"`
	PayeeName           string  `form:"payee_name"`
	// Defaults to true when omitted.
	IsFreeForIeeeMembers *bool `form:"is_free_for_ieee_members"`

	// JSON arrays of {label, type}
	StudentCustomQuestions string `form:"student_custom_questions"`
	FacultyCustomQuestions string `form:"faculty_custom_questions"`

	EmailTemplate             string `form:"email_template"`
	ConfirmationEmailTemplate string `form:"confirmation_email_template"`
}

func (in *eventInput) toEvent() (*models.Event, error) {
	event := &models.Event{
		EventName:                 in.EventName,
		Description:               in.Description,
		EventAudience:             in.EventAudience,
		ParticipationType:         in.ParticipationType,
		MinTeamSize:               in.MinTeamSize,
		MaxTeamSize:               in.MaxTeamSize,
		PaymentsEnabled:           in.PaymentsEnabled,
		StudentFee:                in.StudentFee,
		FacultyFee:                in.FacultyFee,
		PaymentInstructions:       in.PaymentInstructions,
		UpiID:                     in.UpiID,
		PayeeName:                 in.PayeeName,
		IsFreeForIeeeMembers:      true,
		EmailTemplate:             in.EmailTemplate,
		ConfirmationEmailTemplate: in.ConfirmationEmailTemplate,
	}
	if in.IsFreeForIeeeMembers != nil {
		event.IsFreeForIeeeMembers = *in.IsFreeForIeeeMembers
	}
	if in.ParticipationType == models.ParticipationIndividual {
		event.MinTeamSize, event.MaxTeamSize = 1, 1
	}

	if in.StudentCustomQuestions != "" {
		if err := json.Unmarshal([]byte(in.StudentCustomQuestions), &event.StudentCustomQuestions); err != nil {
			return nil, err
		}
	}
	if in.FacultyCustomQuestions != "" {
		if err := json.Unmarshal([]byte(in.FacultyCustomQuestions), &event.FacultyCustomQuestions); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// uploadEventImages handles the optional poster and QR attachments and
// sets the resulting URLs on the event.
func uploadEventImages(c *gin.Context, event *models.Event) error {
	form, err := c.MultipartForm()
	if err != nil && err != http.ErrNotMultipart {
		return err
	}
	if form == nil {
		return nil
	}

	if files := form.File["poster"]; len(files) > 0 {
		file, err := files[0].Open()
		if err != nil {
			return err
		}
		url, err := utils.UploadFile(file, files[0], utils.FolderEventPosters)
		file.Close()
		if err != nil {
			return err
		}
		event.PosterURL = url
	}

	if event.PaymentsEnabled {
		if files := form.File["qr_code"]; len(files) > 0 {
			file, err := files[0].Open()
			if err != nil {
				return err
			}
			url, err := utils.UploadFile(file, files[0], utils.FolderQRCodes)
			file.Close()
			if err != nil {
				return err
			}
			event.QRCodeURL = url
		}
	}
	return nil
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input eventInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		event, err := input.toEvent()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid custom questions", "details": err.Error()})
			return
		}

		// Misconfigured descriptors are rejected here, at save time, so a
		// broken event never reaches the public form.
		if err := formplan.ValidateEvent(event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := uploadEventImages(c, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
			return
		}
		if event.PosterURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event poster is required"})
			return
		}

		now := time.Now()
		event.ID = primitive.NewObjectID()
		event.Status = models.EventStatusClosed
		event.IsActive = false
		event.CreatedAt = now
		event.UpdatedAt = now

		col := cfg.DB().Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.DB().Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.M{"createdAt": -1})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode events"})
			return
		}

		if len(events) == 0 {
			c.JSON(http.StatusOK, []models.Event{})
			return
		}

		// --- Pick the most recently updated event ---
		latest := events[0]
		for _, ev := range events {
			if ev.UpdatedAt.After(latest.UpdatedAt) {
				latest = ev
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var event models.Event
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.DB().Collection("events").
			FindOne(ctx, bson.M{"_id": eventID}).
			Decode(&event)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.DB().Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		var input eventInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		event, err := input.toEvent()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid custom questions", "details": err.Error()})
			return
		}
		if err := formplan.ValidateEvent(event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Keep current images unless new ones are attached.
		event.PosterURL = existing.PosterURL
		event.QRCodeURL = existing.QRCodeURL
		if err := uploadEventImages(c, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
			return
		}

		event.ID = existing.ID
		event.Status = existing.Status
		event.IsActive = existing.IsActive
		event.CreatedAt = existing.CreatedAt
		event.UpdatedAt = time.Now()

		if _, err := col.ReplaceOne(ctx, bson.M{"_id": objID}, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "event updated successfully",
			"event":   event,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.DB().Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "event deleted successfully",
			"id":      oid.Hex(),
		})
	}
}

// ---------------- STATUS TOGGLE ----------------
func ToggleEventStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.DB().Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		newStatus := models.EventStatusOpen
		if event.Status == models.EventStatusOpen {
			newStatus = models.EventStatusClosed
		}

		_, err = col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
			"status":    newStatus,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event status"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": oid.Hex(), "status": newStatus})
	}
}

// ---------------- ACTIVATE ----------------
// Clears every other active flag and sets this event's in one atomic
// batch, so at most one event is ever active.
func ActivateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store := registration.NewMongoStore(cfg.DB())
		if err := registration.Activate(ctx, store, oid); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not activate event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": oid.Hex(), "is_active": true})
	}
}
