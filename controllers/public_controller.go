package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/ieee-vbit/registration-backend-go/config"
	"github.com/ieee-vbit/registration-backend-go/formplan"
	models "github.com/ieee-vbit/registration-backend-go/models"
	"github.com/ieee-vbit/registration-backend-go/registration"
	utils "github.com/ieee-vbit/registration-backend-go/utils"
)

// fetchActiveEvent loads the single event flagged active, if any.
func fetchActiveEvent(ctx context.Context, cfg *config.Config) (*models.Event, error) {
	var event models.Event
	err := cfg.DB().Collection("events").
		FindOne(ctx, bson.M{"isActive": true}).
		Decode(&event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ---------------- ACTIVE EVENT ----------------
func GetActiveEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		event, err := fetchActiveEvent(ctx, cfg)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "no active event at the moment"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load active event"})
			return
		}

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- FORM PLAN ----------------
// Returns the ordered field list for the active event, the chosen
// category and (for ranged team events) the chosen team size.
func GetActiveEventForm(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		event, err := fetchActiveEvent(ctx, cfg)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "no active event at the moment"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load active event"})
			return
		}
		if event.Status != models.EventStatusOpen {
			c.JSON(http.StatusConflict, gin.H{"error": "registrations are currently closed"})
			return
		}

		category := c.DefaultQuery("category", models.CategoryStudent)
		if err := checkAudience(event, category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		teamSize := 0
		if v := c.Query("team_size"); v != "" {
			teamSize, err = strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team size"})
				return
			}
		}

		plan, err := formplan.Build(event, category, teamSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		state := formplan.State{
			Category:   category,
			TeamSize:   plan.TeamSize,
			IeeeMember: formplan.ParseAnswer(c.Query("ieee_member")),
		}

		c.JSON(http.StatusOK, gin.H{
			"event_name":        event.EventName,
			"category":          category,
			"team_size":         plan.TeamSize,
			"team_size_choices": plan.TeamSizeChoices,
			"fields":            formplan.Apply(plan, event, state),
		})
	}
}

// ---------------- SUBMIT ----------------
// The submission runs in a fixed order: re-validate the active event,
// validate the form, upload attachments, insert the record, enqueue the
// confirmation mail. Nothing is persisted before validation passes, and
// the record insert is a single atomic add.
func SubmitRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// (a) the event must still be active and open at submit time
		event, err := fetchActiveEvent(ctx, cfg)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusConflict, gin.H{"error": "this event is no longer active"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load active event"})
			return
		}
		if event.Status != models.EventStatusOpen {
			c.JSON(http.StatusConflict, gin.H{"error": "registrations are currently closed"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil && err != http.ErrNotMultipart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}

		sub := registration.Submission{
			Category: c.DefaultPostForm("category", models.CategoryStudent),
			Values:   map[string]string{},
			Files:    map[string]bool{},
		}
		if v := c.PostForm("team_size"); v != "" {
			sub.TeamSize, err = strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team size"})
				return
			}
		}
		if form != nil {
			for key, vals := range form.Value {
				if len(vals) > 0 {
					sub.Values[key] = vals[0]
				}
			}
			for key, files := range form.File {
				sub.Files[key] = len(files) > 0
			}
		}

		if err := checkAudience(event, sub.Category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// (b) validate before anything touches storage
		prep, err := registration.Validate(event, sub)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// (c) upload attachments; the record stores only their URLs
		var uploads registration.Uploads
		if form != nil {
			uploads.ScreenshotURL, err = uploadSubmissionFile(form, "screenshot", utils.FolderScreenshots)
			if err != nil {
				submissionFailed(c, "file upload", err)
				return
			}
			uploads.MembershipCardURL, err = uploadSubmissionFile(form, "membershipCard", utils.FolderMembershipCards)
			if err != nil {
				submissionFailed(c, "file upload", err)
				return
			}
		}

		rec, task := registration.Assemble(event, prep, sub, uploads)

		// (d) single atomic record insert, then the mail task
		col := cfg.DB().Collection(registration.CollectionFor(event))
		if _, err := col.InsertOne(ctx, rec); err != nil {
			submissionFailed(c, "record insert", err)
			return
		}
		mailCol := cfg.DB().Collection(registration.MailCollectionFor(event))
		if _, err := mailCol.InsertOne(ctx, task); err != nil {
			submissionFailed(c, "mail enqueue", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":             "registration successful",
			"verification_status": rec.VerificationStatus,
		})
	}
}

func uploadSubmissionFile(form *multipart.Form, field, folder string) (string, error) {
	files := form.File[field]
	if len(files) == 0 {
		return "", nil
	}
	file, err := files[0].Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return utils.UploadFile(file, files[0], folder)
}

func submissionFailed(c *gin.Context, step string, err error) {
	subErr := &registration.SubmissionError{Step: step, Err: err}
	c.JSON(http.StatusInternalServerError, gin.H{"error": subErr.Error()})
}

func checkAudience(event *models.Event, category string) error {
	switch category {
	case models.CategoryStudent:
		if event.EventAudience == models.AudienceFacultyOnly {
			return errors.New("this event is open to faculty only")
		}
	case models.CategoryFaculty:
		if event.EventAudience == models.AudienceStudentsOnly {
			return errors.New("this event is open to students only")
		}
	default:
		return errors.New("unknown participant category")
	}
	return nil
}
