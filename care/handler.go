package care

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sensible-care/sensible-push-server/apierr"
	"github.com/sensible-care/sensible-push-server/auth"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
)

type patientRequest struct {
	PatientId string `json:"patientId"`
}

type caretakerRequest struct {
	CaretakerId string `json:"caretakerId"`
}

type relationResponse struct {
	Success  bool            `json:"success"`
	Relation domain.Relation `json:"relation"`
}

type relationsResponse struct {
	Success   bool           `json:"success"`
	Relations []RelationView `json:"relations"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *care) registerRoutes(r gin.IRouter) {
	g := r.Group("/api/auth", c.auth.Middleware())
	g.POST("/addpatient", httpserver.Handle(c.metric, "care.addPatient", c.handleAddPatient))
	g.POST("/addcaretaker", httpserver.Handle(c.metric, "care.addCaretaker", c.handleAddCaretaker))
	g.GET("/getpatients", httpserver.Handle(c.metric, "care.getPatients", c.handleGetPatients))
	g.GET("/getcaretakers", httpserver.Handle(c.metric, "care.getCaretakers", c.handleGetCaretakers))
	g.DELETE("/removepatient", httpserver.Handle(c.metric, "care.removePatient", c.handleRemovePatient))
	g.DELETE("/removecaretaker", httpserver.Handle(c.metric, "care.removeCaretaker", c.handleRemoveCaretaker))
}

func (c *care) bindPatient(ctx *gin.Context) (string, error) {
	var req patientRequest
	if err := httpserver.Bind(ctx, &req); err != nil {
		return "", err
	}
	if req.PatientId == "" {
		return "", apierr.ErrInvalidRequest
	}
	return req.PatientId, nil
}

func (c *care) bindCaretaker(ctx *gin.Context) (string, error) {
	var req caretakerRequest
	if err := httpserver.Bind(ctx, &req); err != nil {
		return "", err
	}
	if req.CaretakerId == "" {
		return "", apierr.ErrInvalidRequest
	}
	return req.CaretakerId, nil
}

func (c *care) handleAddPatient(ctx *gin.Context) (int, any, error) {
	patientId, err := c.bindPatient(ctx)
	if err != nil {
		return 0, nil, err
	}
	rel, err := c.Link(ctx.Request.Context(), auth.UserId(ctx), patientId)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, relationResponse{Success: true, Relation: rel}, nil
}

func (c *care) handleAddCaretaker(ctx *gin.Context) (int, any, error) {
	caretakerId, err := c.bindCaretaker(ctx)
	if err != nil {
		return 0, nil, err
	}
	rel, err := c.Link(ctx.Request.Context(), caretakerId, auth.UserId(ctx))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, relationResponse{Success: true, Relation: rel}, nil
}

func (c *care) handleGetPatients(ctx *gin.Context) (int, any, error) {
	views, err := c.Patients(ctx.Request.Context(), auth.UserId(ctx))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, relationsResponse{Success: true, Relations: views}, nil
}

func (c *care) handleGetCaretakers(ctx *gin.Context) (int, any, error) {
	views, err := c.Caretakers(ctx.Request.Context(), auth.UserId(ctx))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, relationsResponse{Success: true, Relations: views}, nil
}

func (c *care) handleRemovePatient(ctx *gin.Context) (int, any, error) {
	patientId, err := c.bindPatient(ctx)
	if err != nil {
		return 0, nil, err
	}
	if err = c.Unlink(ctx.Request.Context(), auth.UserId(ctx), patientId); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, messageResponse{Success: true, Message: "Patient removed successfully"}, nil
}

func (c *care) handleRemoveCaretaker(ctx *gin.Context) (int, any, error) {
	caretakerId, err := c.bindCaretaker(ctx)
	if err != nil {
		return 0, nil, err
	}
	if err = c.Unlink(ctx.Request.Context(), caretakerId, auth.UserId(ctx)); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, messageResponse{Success: true, Message: "Caretaker removed successfully"}, nil
}
