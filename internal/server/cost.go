package server

import (
	"net/http"
	"strings"

	costdomain "github.com/agropec/boletim/internal/cost/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) ListAnimalCosts(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.costSvc.ListForAnimal(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addCostRequest struct {
	Type          string          `json:"type"`
	Subtype       string          `json:"subtype"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate string          `json:"effective_date"`
	Detail        string          `json:"detail"`
}

func (s *Server) AddAnimalCost(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req addCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	effectiveDate, err := parseOptionalDate(req.EffectiveDate)
	if err != nil {
		AbortWithError(c, newValidationError("effective_date", "invalid_effective_date", "invalid effective_date"))
		return
	}

	resp, err := s.costSvc.AddCost(c.Request.Context(), costdomain.AddCostRequest{
		AnimalID:      id,
		Type:          strings.TrimSpace(req.Type),
		Subtype:       strings.TrimSpace(req.Subtype),
		Amount:        req.Amount,
		EffectiveDate: effectiveDate,
		Detail:        strings.TrimSpace(req.Detail),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecomputeAnimalCost(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	total, err := s.costSvc.RecomputeTotal(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"total_cost": total}})
}

type applyMedicationRequest struct {
	MedicationID       string           `json:"medication_id"`
	MedicationName     string           `json:"medication_name"`
	QtyAdministered    decimal.Decimal  `json:"qty_administered"`
	PackageQtyOverride *decimal.Decimal `json:"package_qty_override"`
}

func (s *Server) ApplyMedicationCost(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req applyMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq := costdomain.ApplyMedicationRequest{
		AnimalID:           id,
		MedicationName:     strings.TrimSpace(req.MedicationName),
		QtyAdministered:    req.QtyAdministered,
		PackageQtyOverride: req.PackageQtyOverride,
	}
	if strings.TrimSpace(req.MedicationID) != "" {
		medID, err := parseSnowflakeID(req.MedicationID)
		if err != nil {
			AbortWithError(c, newValidationError("medication_id", "invalid_medication_id", "invalid medication_id"))
			return
		}
		domainReq.MedicationID = &medID
	}

	resp, err := s.costSvc.ApplyMedicationCost(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createMedicationRequest struct {
	Name             string           `json:"name"`
	PackagePrice     decimal.Decimal  `json:"package_price"`
	PackageQty       *decimal.Decimal `json:"package_qty"`
	FlatPricePerHead *decimal.Decimal `json:"flat_price_per_head"`
}

func (s *Server) CreateMedication(c *gin.Context) {
	var req createMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.costSvc.CreateMedication(c.Request.Context(), &costdomain.Medication{
		Name:             strings.TrimSpace(req.Name),
		PackagePrice:     req.PackagePrice,
		PackageQty:       req.PackageQty,
		FlatPricePerHead: req.FlatPricePerHead,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
