package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = fmt.Errorf("sentinel")

func sentinelMapper(err error) (Detail, bool) {
	if err == errSentinel {
		return Detail{Name: KindValidation, Fields: []string{"email"}}, true
	}
	return Detail{}, false
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespond_WithoutDetailOmitsError(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	NewResponder().Respond(c, NotFound("User not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
	assert.True(t, c.IsAborted())
}

func TestRespondError_UsesMappers(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	responder := NewResponder(sentinelMapper)

	responder.RespondError(c, BadRequest("Error creating user"), fmt.Errorf("wrapped"))
	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Error creating user", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, KindGeneric, body.Error.Name)
	assert.Equal(t, "wrapped", body.Error.Detail)

	detail := responder.Describe(errSentinel)
	assert.Equal(t, KindValidation, detail.Name)
	assert.Equal(t, "sentinel", detail.Detail)
	assert.Equal(t, []string{"email"}, detail.Fields)
}

func TestDescribe_ProblemKeepsItsDetail(t *testing.T) {
	inner := BadRequest("x").WithDetail(Detail{Name: KindUpload, Detail: "disk full"})
	detail := NewResponder(sentinelMapper).Describe(fmt.Errorf("save: %w", inner))
	assert.Equal(t, KindUpload, detail.Name)
	assert.Equal(t, "disk full", detail.Detail)
	assert.Equal(t, "Error: disk full", Internal("Error").WithDetail(*inner.Detail).Error())
}
