package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// MessageController maneja la mensajería entre usuarios.
// Las conversaciones se identifican como conv_<menor>_<mayor>.
type MessageController struct {
	service services.MessageService
}

// NewMessageController crea una nueva instancia del controlador
func NewMessageController(service services.MessageService) *MessageController {
	return &MessageController{service: service}
}

// Conversations maneja GET /api/messages/conversations
func (ctrl *MessageController) Conversations(c *gin.Context) {
	conversations, err := ctrl.service.Conversations(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// Get maneja GET /api/messages/:conversation_id
// Marca como leídos los mensajes recibidos
func (ctrl *MessageController) Get(c *gin.Context) {
	conversation, err := ctrl.service.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("conversation_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversation)
}

// Send maneja POST /api/messages/:conversation_id
func (ctrl *MessageController) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	message, err := ctrl.service.Send(c.Request.Context(), middleware.CurrentUser(c), c.Param("conversation_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Message sent successfully", Data: message})
}

// Start maneja POST /api/messages/conversation/:user_id
func (ctrl *MessageController) Start(c *gin.Context) {
	otherID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	result, err := ctrl.service.Start(c.Request.Context(), middleware.CurrentUser(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
