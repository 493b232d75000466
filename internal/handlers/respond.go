package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
)

// respondError maps a service error to its HTTP status. Store errors
// are logged and surfaced as a generic 500; nothing retries.
func respondError(ctx *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		conflictErr   *apperrors.ConflictError
		authErr       *apperrors.AuthError
		notFoundErr   *apperrors.NotFoundError
		storeErr      *apperrors.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": conflictErr.Message})
	case errors.As(err, &authErr):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message})
	case errors.As(err, &notFoundErr):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &storeErr):
		log.Printf("Store error: %v", storeErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	default:
		log.Printf("Unexpected error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func toUserResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func toTaskResponse(task models.Task) types.TaskResponse {
	return types.TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Status:    task.Status,
		OwnerID:   task.OwnerID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}
