package server

import (
	"encoding/json"
	"net/http"
	"strings"

	ledgerdomain "github.com/agropec/boletim/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) GetPeriod(c *gin.Context) {
	label := strings.TrimSpace(c.Param("label"))

	resp, err := s.ledgerSvc.GetPeriod(c.Request.Context(), label)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updatePeriodRequest struct {
	Locality *string `json:"locality"`
	Status   *string `json:"status"`
}

func (s *Server) UpdatePeriod(c *gin.Context) {
	label := strings.TrimSpace(c.Param("label"))

	var req updatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.UpdatePeriod(c.Request.Context(), label, ledgerdomain.UpdatePeriodRequest{
		Locality: req.Locality,
		Status:   req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type recordMovementRequest struct {
	PeriodLabel  string          `json:"period_label"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	AnimalID     string          `json:"animal_id"`
	Amount       decimal.Decimal `json:"amount"`
	MovementDate string          `json:"movement_date"`
	Description  string          `json:"description"`
	Notes        string          `json:"notes"`
	Extra        json.RawMessage `json:"extra"`
}

func (s *Server) RecordMovement(c *gin.Context) {
	var req recordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	movementDate, err := parseDate(req.MovementDate)
	if err != nil {
		AbortWithError(c, newValidationError("movement_date", "invalid_movement_date", "invalid movement_date"))
		return
	}

	var animalID *snowflake.ID
	if strings.TrimSpace(req.AnimalID) != "" {
		id, err := parseSnowflakeID(req.AnimalID)
		if err != nil {
			AbortWithError(c, newValidationError("animal_id", "invalid_animal_id", "invalid animal_id"))
			return
		}
		animalID = &id
	}

	resp, err := s.ledgerSvc.RecordMovement(c.Request.Context(), ledgerdomain.RecordMovementRequest{
		PeriodLabel:  strings.TrimSpace(req.PeriodLabel),
		Type:         ledgerdomain.MovementType(strings.TrimSpace(req.Type)),
		Subtype:      strings.TrimSpace(req.Subtype),
		AnimalID:     animalID,
		Amount:       req.Amount,
		MovementDate: movementDate,
		Description:  strings.TrimSpace(req.Description),
		Notes:        strings.TrimSpace(req.Notes),
		Extra:        string(req.Extra),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
