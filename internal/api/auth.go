package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"kitchenops/internal/pantry"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const defaultStaffID = "staff"

// LoginRequest is the staff portal form. Credentials are not verified.
type LoginRequest struct {
	StaffID  string `json:"staffId"`
	Passcode string `json:"passcode"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token     string    `json:"token"`
	StaffID   string    `json:"staffId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (k *KitchenAPI) issueToken(staffID string) (LoginResponse, error) {
	now := time.Now()
	expires := now.Add(k.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   staffID,
		Issuer:    "kitchenops",
		IssuedAt:  now.Unix(),
		ExpiresAt: expires.Unix(),
	})

	signed, err := token.SignedString(k.jwtSecret)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: signed, StaffID: staffID, ExpiresAt: expires.UTC().Truncate(time.Second)}, nil
}

func (k *KitchenAPI) parseToken(raw string) (string, bool) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return k.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	return claims.Subject, true
}

// Login accepts any staff ID and passcode and returns a session token
func (k *KitchenAPI) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staffID := strings.TrimSpace(req.StaffID)
	if staffID == "" {
		staffID = defaultStaffID
	}

	resp, err := k.issueToken(staffID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// staffContext attaches the staff member named by a valid bearer token.
// Requests without one are still served.
func (k *KitchenAPI) staffContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok {
			if staffID, valid := k.parseToken(raw); valid {
				c.Set("staffId", staffID)
				c.Request = c.Request.WithContext(pantry.WithStaffID(c.Request.Context(), staffID))
			}
		}
		c.Next()
	}
}
