package server

import (
	"context"
	"net/http"

	reconciledomain "github.com/agropec/boletim/internal/reconcile/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) SyncInvoicesToAnimals(c *gin.Context) {
	s.runSync(c, s.reconcileSvc.SyncInvoicesToAnimals)
}

func (s *Server) SyncInvoicesToLedger(c *gin.Context) {
	s.runSync(c, s.reconcileSvc.SyncInvoicesToLedger)
}

func (s *Server) SyncDeathsToLedger(c *gin.Context) {
	s.runSync(c, s.reconcileSvc.SyncDeathsToLedger)
}

func (s *Server) runSync(c *gin.Context, flow func(context.Context) (*reconciledomain.Report, error)) {
	report, err := flow(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
