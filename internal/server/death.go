package server

import (
	"net/http"
	"strings"

	deathdomain "github.com/agropec/boletim/internal/death/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type registerDeathRequest struct {
	AnimalID   string           `json:"animal_id"`
	Identifier string           `json:"identifier"`
	Cause      string           `json:"cause"`
	OccurredOn string           `json:"occurred_on"`
	LossValue  *decimal.Decimal `json:"loss_value"`
}

// RegisterDeath accepts either a numeric animal id or a free-text identifier
// resolved through the matcher chain.
func (s *Server) RegisterDeath(c *gin.Context) {
	var req registerDeathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	occurredOn, err := parseDate(req.OccurredOn)
	if err != nil {
		AbortWithError(c, newValidationError("occurred_on", "invalid_occurred_on", "invalid occurred_on"))
		return
	}

	domainReq := deathdomain.RegisterDeathRequest{
		Cause:      strings.TrimSpace(req.Cause),
		OccurredOn: occurredOn,
		LossValue:  req.LossValue,
	}

	switch {
	case strings.TrimSpace(req.AnimalID) != "":
		id, err := parseSnowflakeID(req.AnimalID)
		if err != nil {
			AbortWithError(c, newValidationError("animal_id", "invalid_animal_id", "invalid animal_id"))
			return
		}
		domainReq.AnimalID = id
	case strings.TrimSpace(req.Identifier) != "":
		animal, err := s.identitySvc.Resolve(c.Request.Context(), req.Identifier)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		domainReq.AnimalID = animal.ID
	default:
		AbortWithError(c, newValidationError("animal_id", "missing_animal", "animal_id or identifier is required"))
		return
	}

	resp, err := s.deathSvc.Register(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDeaths(c *gin.Context) {
	resp, err := s.deathSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
