// routes/auth.go
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/middleware"
	"github.com/bookstay/booking-api/models"
)

var errEmailTaken = errors.New("user with this email already exists.")

// UserRoutes sets up registration, token issuance and the profile endpoints.
func UserRoutes(router *gin.Engine) {
	router.POST("/user/create", CreateUser())
	router.POST("/user/token", CreateToken())
	router.POST("/user/token/refresh", RefreshToken())

	me := router.Group("/user")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/me", GetMe())
		me.PATCH("/me", UpdateMe())
	}
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"is_staff":     user.IsStaff,
		"is_superuser": user.IsSuperuser,
	}
}

// CreateUser handles new user registration.
func CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var registerRequest struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=5"`
		}

		if err := c.ShouldBindJSON(&registerRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerRequest.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process registration"})
			return
		}

		user := models.User{
			Name:     registerRequest.Name,
			Email:    models.NormalizeEmail(registerRequest.Email),
			Password: string(hashedPassword),
		}

		DB := db.GetDB()
		if result := DB.Create(&user); result.Error != nil {
			if result.Error == gorm.ErrDuplicatedKey {
				fieldError(c, "email", errEmailTaken)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": userResponse(&user)})
	}
}

// CreateToken exchanges email + password for an access/refresh token pair.
func CreateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&loginRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		DB := db.GetDB()
		var user models.User
		result := DB.Where("email = ?", models.NormalizeEmail(loginRequest.Email)).First(&user)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error during login"})
			}
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginRequest.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		accessToken, refreshToken, err := generateTokens(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate login tokens"})
			return
		}
		storeRefreshToken(c, user.ID, refreshToken)

		c.JSON(http.StatusOK, gin.H{
			"user":          userResponse(&user),
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func RefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var refreshRequest struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&refreshRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		jwtSecret := os.Getenv("JWT_SECRET_KEY")
		if jwtSecret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
			return
		}

		token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process token"})
			return
		}

		if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type provided"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not parse user ID from token"})
			return
		}
		userID := uint(userIDFloat)

		// When Redis is configured, only the most recently issued refresh
		// token for the user is accepted; older ones are revoked.
		if db.RedisClient != nil {
			stored, err := db.RedisClient.Get(c.Request.Context(), refreshTokenKey(userID)).Result()
			if err != nil || stored != refreshRequest.RefreshToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
				return
			}
		}

		DB := db.GetDB()
		var user models.User
		if result := DB.First(&user, userID); result.Error != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User associated with token not found"})
			return
		}

		newAccessToken, newRefreshToken, err := generateTokens(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate new tokens"})
			return
		}
		storeRefreshToken(c, userID, newRefreshToken)

		c.JSON(http.StatusOK, gin.H{
			"access_token":  newAccessToken,
			"refresh_token": newRefreshToken,
		})
	}
}

// GetMe returns the authenticated user's profile.
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var user models.User
		if result := DB.First(&user, userID); result.Error != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
	}
}

// UpdateMe updates name, email or password of the authenticated user.
func UpdateMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var user models.User
		if result := DB.First(&user, userID); result.Error != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var updateRequest struct {
			Name     *string `json:"name"`
			Email    *string `json:"email" binding:"omitempty,email"`
			Password *string `json:"password" binding:"omitempty,min=5"`
		}
		if err := c.ShouldBindJSON(&updateRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if updateRequest.Name != nil {
			user.Name = *updateRequest.Name
		}
		if updateRequest.Email != nil {
			user.Email = models.NormalizeEmail(*updateRequest.Email)
		}
		if updateRequest.Password != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*updateRequest.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
				return
			}
			user.Password = string(hashedPassword)
		}

		if result := DB.Save(&user); result.Error != nil {
			if result.Error == gorm.ErrDuplicatedKey {
				fieldError(c, "email", errEmailTaken)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
	}
}

func refreshTokenKey(userID uint) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

// storeRefreshToken records the active refresh token for the user; a no-op
// when Redis is not configured.
func storeRefreshToken(c *gin.Context, userID uint, refreshToken string) {
	if db.RedisClient == nil {
		return
	}
	db.RedisClient.Set(c.Request.Context(), refreshTokenKey(userID), refreshToken, time.Hour*24*7)
}

// generateTokens is a helper function to create new JWT access and refresh tokens.
func generateTokens(userID uint) (string, string, error) {
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return "", "", fmt.Errorf("JWT secret key not configured")
	}
	secretKeyBytes := []byte(jwtSecret)

	accessTokenClaims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 1).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims)
	accessTokenString, err := accessToken.SignedString(secretKeyBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshTokenClaims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "refresh",
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshTokenClaims)
	refreshTokenString, err := refreshToken.SignedString(secretKeyBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessTokenString, refreshTokenString, nil
}
