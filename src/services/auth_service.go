package services

import (
	"context"
	"log"
	"strings"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/database"
	"Backend-FlowForge/src/models"
	"Backend-FlowForge/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 7 * 24 * time.Hour

var userCollection *mongo.Collection

func init() {
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}
	userCollection = database.GetCollection("FlowForgeDB", "users")
}

// AuthResult carries the issued tokens and the authenticated user.
type AuthResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// AuthenticateUser checks email/password and issues an access token plus a
// redis-backed refresh token.
func AuthenticateUser(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		return nil, apperror.NewNotFoundError("invalid email or password", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.NewValidationError("invalid email or password", err)
	}

	accessToken, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken := utils.GenerateRandomString(64)
	if err := utils.StoreRefreshToken(user.ID.Hex(), refreshToken, refreshTokenTTL); err != nil {
		return nil, err
	}

	user.Password = ""
	return &AuthResult{
		User:         &user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshAccessToken validates the presented refresh token and rotates both
// tokens.
func RefreshAccessToken(ctx context.Context, userID, refreshToken string) (*AuthResult, error) {
	ok, err := utils.ValidateRefreshToken(userID, refreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewValidationError("invalid refresh token", nil)
	}

	var user models.User
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewValidationError("invalid user id", err)
	}
	if err := userCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, apperror.NewNotFoundError("user not found", err)
	}

	accessToken, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	newRefresh := utils.GenerateRandomString(64)
	if err := utils.StoreRefreshToken(userID, newRefresh, refreshTokenTTL); err != nil {
		return nil, err
	}

	user.Password = ""
	return &AuthResult{
		User:         &user,
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

// Logout drops the stored refresh token.
func Logout(userID string) error {
	return utils.DeleteRefreshToken(userID)
}

// CreateUser registers an account with a bcrypt-hashed password.
func CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Email = strings.ToLower(user.Email)
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = "user"
	}

	result, err := userCollection.InsertOne(ctx, user)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	user.Password = ""
	return user, nil
}
