package server

import (
	"net/http"
	"strings"

	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ingestItemRequest struct {
	ProductKind     string           `json:"product_kind"`
	Description     string           `json:"description"`
	TagIdentifier   string           `json:"tag_identifier"`
	Breed           string           `json:"breed"`
	WeightKg        *decimal.Decimal `json:"weight_kg"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	Total           decimal.Decimal  `json:"total"`
	StorageLocation string           `json:"storage_location"`
	Certificate     string           `json:"certificate"`
	ExpiresOn       string           `json:"expires_on"`
}

type ingestInvoiceRequest struct {
	Number    string              `json:"number"`
	Direction string              `json:"direction"`
	Supplier  string              `json:"supplier"`
	IssuedOn  string              `json:"issued_on"`
	Items     []ingestItemRequest `json:"items"`
}

func (s *Server) IngestInvoice(c *gin.Context) {
	var req ingestInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	issuedOn, err := parseDate(req.IssuedOn)
	if err != nil {
		AbortWithError(c, newValidationError("issued_on", "invalid_issued_on", "invalid issued_on"))
		return
	}

	items := make([]invoicedomain.IngestItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		expiresOn, err := parseOptionalDate(item.ExpiresOn)
		if err != nil {
			AbortWithError(c, newValidationError("expires_on", "invalid_expires_on", "invalid expires_on"))
			return
		}
		items = append(items, invoicedomain.IngestItemRequest{
			ProductKind:     invoicedomain.ProductKind(strings.TrimSpace(item.ProductKind)),
			Description:     strings.TrimSpace(item.Description),
			TagIdentifier:   strings.TrimSpace(item.TagIdentifier),
			Breed:           strings.TrimSpace(item.Breed),
			WeightKg:        item.WeightKg,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Total:           item.Total,
			StorageLocation: strings.TrimSpace(item.StorageLocation),
			Certificate:     strings.TrimSpace(item.Certificate),
			ExpiresOn:       expiresOn,
		})
	}

	resp, err := s.invoiceSvc.Ingest(c.Request.Context(), invoicedomain.IngestInvoiceRequest{
		Number:    strings.TrimSpace(req.Number),
		Direction: invoicedomain.InvoiceDirection(strings.TrimSpace(req.Direction)),
		Supplier:  strings.TrimSpace(req.Supplier),
		IssuedOn:  issuedOn,
		Items:     items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	resp, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSemenLots(c *gin.Context) {
	resp, err := s.inventorySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
