package usersserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-gin-users-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/go-gin-users-api/internal/domains/users/ports"
)

// ProfilePictureField is the multipart field carrying the optional upload.
const ProfilePictureField = "profilePicture"

// UserAPI implements the /users resource.
type UserAPI struct {
	service  userports.Service
	pictures userports.PictureStore
	logger   *slog.Logger
}

// NewUserAPI wires dependencies. A nil logger falls back to slog.Default.
func NewUserAPI(service userports.Service, pictures userports.PictureStore, logger *slog.Logger) UserAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return UserAPI{service: service, pictures: pictures, logger: logger}
}

// Get /users
// List all users
func (api *UserAPI) ListUsers(c *gin.Context) {
	users, err := api.service.List(c.Request.Context())
	if err != nil {
		respondUserError(c, errFetchingUsers, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUsers(users))
}

// Get /users/:id
// Get user by id
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		respondProblem(c, errUserNotFound)
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, errFetchingUser, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Post /users
// Create user from a multipart or urlencoded form
func (api *UserAPI) CreateUser(c *gin.Context) {
	var form userhttpmapper.UserForm
	if err := c.ShouldBind(&form); err != nil {
		respondUserError(c, errCreatingUser, err)
		return
	}
	picture, err := api.storePicture(c)
	if err != nil {
		respondUploadError(c, errCreatingUser, err)
		return
	}
	created, err := api.service.Create(c.Request.Context(), userhttpmapper.ToProfile(form, picture))
	if err != nil {
		respondUserError(c, errCreatingUser, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(created))
}

// Put /users/:id
// Replace every field of a user; omitting the picture clears it
func (api *UserAPI) UpdateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		respondProblem(c, errUserNotFound)
		return
	}
	var form userhttpmapper.UserForm
	if err := c.ShouldBind(&form); err != nil {
		respondUserError(c, errUpdatingUser, err)
		return
	}
	picture, err := api.storePicture(c)
	if err != nil {
		respondUploadError(c, errUpdatingUser, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, userhttpmapper.ToProfile(form, picture))
	if err != nil {
		respondUserError(c, errUpdatingUser, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(updated))
}

// Delete /users/:id
// Delete user
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		respondProblem(c, errUserNotFound)
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondUserError(c, errDeletingUser, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// storePicture saves the optional upload and returns its stored name, or nil when none was sent.
func (api *UserAPI) storePicture(c *gin.Context) (*string, error) {
	file, err := c.FormFile(ProfilePictureField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	name, err := api.pictures.Save(c.Request.Context(), file)
	if err != nil {
		return nil, err
	}
	api.logger.DebugContext(c.Request.Context(), "profile picture stored",
		slog.String("file", name),
		slog.Int64("size", file.Size),
	)
	return &name, nil
}

// userID parses the :id segment. Anything but a positive integer can never match a row.
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
