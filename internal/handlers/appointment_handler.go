package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/vet-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/vet-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   *ucAppointment.CreateAppointment
	list     *ucAppointment.ListUserAppointments
	update   *ucAppointment.UpdateAppointment
	cancel   *ucAppointment.CancelAppointment
	complete *ucAppointment.CompleteAppointment
	log      *slog.Logger
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	list *ucAppointment.ListUserAppointments,
	update *ucAppointment.UpdateAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	log *slog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:   create,
		list:     list,
		update:   update,
		cancel:   cancel,
		complete: complete,
		log:      log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date  string `json:"date" binding:"required"`
	Pet   string `json:"pet" binding:"required,entityid"`
	User  string `json:"user" binding:"required,entityid"`
	Notes string `json:"notes" binding:"max=255"`
}

type UpdateAppointmentRequest struct {
	UserID        string  `json:"userId" binding:"required,entityid"`
	AppointmentID string  `json:"appointmentId" binding:"required,entityid"`
	Date          *string `json:"date"`
	Status        *string `json:"status" binding:"omitempty,max=30"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos: "+err.Error())
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		PetID:  req.Pet,
		UserID: req.User,
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		h.fail(c, err, "Error al crear la cita")
		return
	}

	httpresp.Success(c, "msg", "Cita creada exitosamente en fecha "+req.Date, gin.H{
		"appointment": ap,
	})
}

// ======================================================
// LIST BY USER
// ======================================================

func (h *AppointmentHandler) ListByUser(c *gin.Context) {
	appointments, err := h.list.Execute(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.fail(c, err, "Error al obtener las citas")
		return
	}

	httpresp.Success(c, "", "", gin.H{
		"appointments": appointments,
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos: "+err.Error())
		return
	}

	if uid := c.GetString(middleware.ContextUserID); uid != "" && uid != req.UserID {
		httperr.Business(c, "appointment_forbidden", errorMessages["appointment_forbidden"])
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		UserID:        req.UserID,
		AppointmentID: req.AppointmentID,
		Date:          req.Date,
		Status:        req.Status,
	})
	if err != nil {
		h.fail(c, err, "Error al actualizar la cita")
		return
	}

	httpresp.Success(c, "message", "Cita actualizada correctamente", gin.H{
		"appointment": ap,
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.fail(c, err, "Error al cancelar la cita")
		return
	}

	httpresp.Success(c, "message", "Cita cancelada con éxito", gin.H{
		"appointment": ap,
	})
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ap, err := h.complete.Execute(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.fail(c, err, "Error al completar la cita")
		return
	}

	httpresp.Success(c, "message", "Cita completada con éxito", gin.H{
		"appointment": ap,
	})
}

// ======================================================
// ERRORS
// ======================================================

var errorMessages = map[string]string{
	"invalid_date":           "Fecha inválida",
	"appointment_conflict":   "El usuario y la mascota ya tienen una cita para este día",
	"invalid_state":          "La cita no puede completarse en su estado actual",
	"pet_not_found":          "No se encontró la mascota",
	"user_not_found":         "Usuario no encontrado",
	"appointments_not_found": "No se encontraron citas de este usuario",
	"appointment_not_found":  "Cita no encontrada",
	"appointment_forbidden":  "Esta cita no pertenece al usuario",
	"appointment_busy":       "La cita se está procesando, intente de nuevo",
}

func (h *AppointmentHandler) fail(c *gin.Context, err error, internalMsg string) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		_ = c.Error(err)
		h.log.ErrorContext(c.Request.Context(), internalMsg,
			slog.String("error", err.Error()),
			slog.String("request_id", c.GetString(middleware.ContextRequestID)),
		)
		httperr.Internal(c, "internal_error", internalMsg)
		return
	}

	msg, ok := errorMessages[code]
	if !ok {
		msg = internalMsg
	}
	httperr.Business(c, code, msg)
}
