package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// DetailMapper describes errors it recognizes.
type DetailMapper func(err error) (Detail, bool)

// Responder sends error envelopes, describing causes through its mappers.
type Responder struct {
	mappers []DetailMapper
}

// NewResponder creates a responder with the given mappers, tried in order.
func NewResponder(mappers ...DetailMapper) *Responder {
	return &Responder{mappers: mappers}
}

// Respond sends the problem as JSON and aborts the handler chain.
func (r *Responder) Respond(c *gin.Context, problem Problem) {
	c.AbortWithStatusJSON(problem.Status, problem.Body())
}

// RespondError sends problem with err described in the error field.
func (r *Responder) RespondError(c *gin.Context, problem Problem, err error) {
	if err != nil {
		problem = problem.WithDetail(r.Describe(err))
		_ = c.Error(err)
	}
	r.Respond(c, problem)
}

// Describe runs the mappers and falls back to a generic detail.
func (r *Responder) Describe(err error) Detail {
	var problem Problem
	if errors.As(err, &problem) && problem.Detail != nil {
		return *problem.Detail
	}
	for _, mapper := range r.mappers {
		if detail, ok := mapper(err); ok {
			if detail.Detail == "" {
				detail.Detail = err.Error()
			}
			return detail
		}
	}
	return Detail{Name: KindGeneric, Detail: err.Error()}
}
