package usersserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	userapp "github.com/Apurer/go-gin-users-api/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-users-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-users-api/internal/domains/users/ports"
	platformpostgres "github.com/Apurer/go-gin-users-api/internal/platform/postgres"
	apierrors "github.com/Apurer/go-gin-users-api/internal/shared/errors"
)

var (
	errUserNotFound  = apierrors.NotFound("User not found")
	errFetchingUsers = apierrors.Internal("Error fetching users")
	errFetchingUser  = apierrors.Internal("Error fetching user")
	errCreatingUser  = apierrors.BadRequest("Error creating user")
	errUpdatingUser  = apierrors.BadRequest("Error updating user")
	errDeletingUser  = apierrors.BadRequest("Error deleting user")
)

var responder = apierrors.NewResponder(validationDetail, databaseDetail)

func respondProblem(c *gin.Context, problem apierrors.Problem) {
	responder.Respond(c, problem)
}

// respondUserError answers 404 for a missing user and problem otherwise.
func respondUserError(c *gin.Context, problem apierrors.Problem, err error) {
	if errors.Is(err, userports.ErrNotFound) {
		respondProblem(c, errUserNotFound)
		return
	}
	responder.RespondError(c, problem, err)
}

func respondUploadError(c *gin.Context, problem apierrors.Problem, err error) {
	_ = c.Error(err)
	respondProblem(c, problem.WithDetail(apierrors.Detail{
		Name:   apierrors.KindUpload,
		Detail: err.Error(),
	}))
}

func validationDetail(err error) (apierrors.Detail, bool) {
	if !errors.Is(err, userapp.ErrInvalidInput) {
		return apierrors.Detail{}, false
	}
	return apierrors.Detail{
		Name:   apierrors.KindValidation,
		Detail: strings.ReplaceAll(err.Error(), "\n", "; "),
		Fields: userdomain.MissingFields(err),
	}, true
}

func databaseDetail(err error) (apierrors.Detail, bool) {
	pgErr, ok := platformpostgres.AsError(err)
	if !ok {
		return apierrors.Detail{}, false
	}
	detail := apierrors.Detail{
		Name:       apierrors.KindDatabase,
		Detail:     pgErr.Message,
		Code:       pgErr.Code,
		Constraint: pgErr.Constraint,
	}
	if pgErr.Column != "" {
		detail.Fields = []string{pgErr.Column}
	}
	return detail, true
}
