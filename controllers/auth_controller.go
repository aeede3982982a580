package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/ieee-vbit/registration-backend-go/config"
	models "github.com/ieee-vbit/registration-backend-go/models"
	utils "github.com/ieee-vbit/registration-backend-go/utils"
)

// LoginInput request body for admin login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handler: checks admin credentials and issues a JWT. Invalid
// credentials always produce the same message so the login page can
// show it verbatim.
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		err := cfg.DB().Collection("admins").
			FindOne(ctx, bson.M{"email": input.Email}).
			Decode(&admin)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		if err := utils.CheckPassword(admin.PasswordHash, input.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		token, err := utils.GenerateJWT(cfg, admin.ID.Hex(), "admin")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
