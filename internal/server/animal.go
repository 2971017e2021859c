package server

import (
	"net/http"
	"strings"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createAnimalRequest struct {
	Series        string           `json:"series"`
	RegNo         string           `json:"reg_no"`
	Sex           string           `json:"sex"`
	Breed         string           `json:"breed"`
	Supplier      string           `json:"supplier"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	WeightKg      *decimal.Decimal `json:"weight_kg"`
	AcquiredOn    string           `json:"acquired_on"`
}

func (s *Server) CreateAnimal(c *gin.Context) {
	var req createAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	acquiredOn, err := parseOptionalDate(req.AcquiredOn)
	if err != nil {
		AbortWithError(c, newValidationError("acquired_on", "invalid_acquired_on", "invalid acquired_on"))
		return
	}

	resp, err := s.animalSvc.Create(c.Request.Context(), animaldomain.CreateAnimalRequest{
		Series:        strings.TrimSpace(req.Series),
		RegNo:         strings.TrimSpace(req.RegNo),
		Sex:           strings.TrimSpace(req.Sex),
		Breed:         strings.TrimSpace(req.Breed),
		Supplier:      strings.TrimSpace(req.Supplier),
		PurchasePrice: req.PurchasePrice,
		WeightKg:      req.WeightKg,
		AcquiredOn:    acquiredOn,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAnimal(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.animalSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAnimals(c *gin.Context) {
	var query struct {
		Series string `form:"series"`
		RegNo  string `form:"reg_no"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.animalSvc.List(c.Request.Context(), animaldomain.ListAnimalFilter{
		Series: strings.TrimSpace(query.Series),
		RegNo:  strings.TrimSpace(query.RegNo),
		Status: animaldomain.AnimalStatus(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateAnimalRequest struct {
	Sex           *string          `json:"sex"`
	Breed         *string          `json:"breed"`
	Supplier      *string          `json:"supplier"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	WeightKg      *decimal.Decimal `json:"weight_kg"`
	SaleValue     *decimal.Decimal `json:"sale_value"`
	Status        *string          `json:"status"`
}

func (s *Server) UpdateAnimal(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var status *animaldomain.AnimalStatus
	if req.Status != nil {
		st := animaldomain.AnimalStatus(strings.TrimSpace(*req.Status))
		status = &st
	}

	resp, err := s.animalSvc.Update(c.Request.Context(), id, animaldomain.UpdateAnimalRequest{
		Sex:           req.Sex,
		Breed:         req.Breed,
		Supplier:      req.Supplier,
		PurchasePrice: req.PurchasePrice,
		WeightKg:      req.WeightKg,
		SaleValue:     req.SaleValue,
		Status:        status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAnimal(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.animalSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ResolveAnimal(c *gin.Context) {
	identifier := strings.TrimSpace(c.Query("identifier"))

	resp, err := s.identitySvc.Resolve(c.Request.Context(), identifier)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDuplicateAnimals(c *gin.Context) {
	resp, err := s.animalSvc.FindDuplicatePairs(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
