package push

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sensible-care/sensible-push-server/auth"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
)

type setTokenRequest struct {
	Token string `json:"token"`
}

type notificationRequest struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

func (r notificationRequest) message() domain.Message {
	return domain.Message{Title: r.Title, Body: r.Body, Data: r.Data}
}

type sendToUserRequest struct {
	notificationRequest
	ReceiverId string `json:"receiverId"`
	// older clients send the misspelled field
	LegacyReceiverId string `json:"recieverId"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type tokenResponse struct {
	Success bool    `json:"success"`
	Token   *string `json:"token"`
	Message string  `json:"message"`
}

type dispatchResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Result  domain.DispatchResult `json:"result"`
}

func (p *push) registerRoutes(r gin.IRouter) {
	g := r.Group("/api/notification", p.auth.Middleware())
	g.PUT("/token", httpserver.Handle(p.metric, "push.setToken", p.handleSetToken))
	g.GET("/token", httpserver.Handle(p.metric, "push.getToken", p.handleGetToken))
	g.DELETE("/token", httpserver.Handle(p.metric, "push.removeToken", p.handleRemoveToken))
	g.POST("/sendtouser", httpserver.Handle(p.metric, "push.sendToUser", p.handleSendToUser))
	g.POST("/sendtogroupfrompatients", httpserver.Handle(p.metric, "push.sendToCaretakers", p.handleSendToCaretakers))
	g.POST("/sendtoallusers", httpserver.Handle(p.metric, "push.sendToAll", p.handleSendToAll))
}

func (p *push) handleSetToken(c *gin.Context) (int, any, error) {
	var req setTokenRequest
	if err := httpserver.Bind(c, &req); err != nil {
		return 0, nil, err
	}
	if err := p.SetToken(c.Request.Context(), auth.UserId(c), req.Token); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, messageResponse{Success: true, Message: "Token updated successfully"}, nil
}

func (p *push) handleGetToken(c *gin.Context) (int, any, error) {
	token, ok, err := p.GetToken(c.Request.Context(), auth.UserId(c))
	if err != nil {
		return 0, nil, err
	}
	resp := tokenResponse{Success: true, Message: "Token retrieved successfully"}
	if ok {
		resp.Token = &token
	}
	return http.StatusOK, resp, nil
}

func (p *push) handleRemoveToken(c *gin.Context) (int, any, error) {
	if err := p.ClearToken(c.Request.Context(), auth.UserId(c)); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, messageResponse{Success: true, Message: "Token removed successfully"}, nil
}

func (p *push) handleSendToUser(c *gin.Context) (int, any, error) {
	var req sendToUserRequest
	if err := httpserver.Bind(c, &req); err != nil {
		return 0, nil, err
	}
	receiverId := req.ReceiverId
	if receiverId == "" {
		receiverId = req.LegacyReceiverId
	}
	res, err := p.SendToUser(c.Request.Context(), auth.UserId(c), receiverId, req.message())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, newDispatchResponse(res), nil
}

func (p *push) handleSendToCaretakers(c *gin.Context) (int, any, error) {
	var req notificationRequest
	if err := httpserver.Bind(c, &req); err != nil {
		return 0, nil, err
	}
	res, err := p.SendToCaretakers(c.Request.Context(), auth.UserId(c), req.message())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, newDispatchResponse(res), nil
}

func (p *push) handleSendToAll(c *gin.Context) (int, any, error) {
	var req notificationRequest
	if err := httpserver.Bind(c, &req); err != nil {
		return 0, nil, err
	}
	res, queued, err := p.SendToAll(c.Request.Context(), auth.UserId(c), req.message())
	if err != nil {
		return 0, nil, err
	}
	if queued {
		return http.StatusAccepted, messageResponse{Success: true, Message: "Notification queued"}, nil
	}
	return http.StatusOK, newDispatchResponse(res), nil
}

func newDispatchResponse(res domain.DispatchResult) dispatchResponse {
	msg := "Notification sent successfully"
	switch {
	case res.Success && res.NoRecipients:
		msg = "No recipients to notify"
	case !res.Success:
		msg = res.Reason
	}
	return dispatchResponse{Success: res.Success, Message: msg, Result: res}
}
