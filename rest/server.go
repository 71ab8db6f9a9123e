package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BasisLabs/crypto-tax-engine/config"
	dbTypes "github.com/BasisLabs/crypto-tax-engine/db"
	"github.com/BasisLabs/crypto-tax-engine/engine"
)

// server exposes computed tax reports over HTTP. The engine itself stays
// free of transport concerns; this layer only validates parameters, fetches
// the account history and serializes the result.
type server struct {
	db *gorm.DB
}

func NewRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{db: db}
	router.GET("/healthz", s.health)
	router.GET("/report", s.getReport)

	return router
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) getReport(c *gin.Context) {
	account := c.Query("account")
	if account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account is required"})
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a four-digit integer"})
		return
	}

	method, err := engine.ParseMethod(c.DefaultQuery("method", string(engine.FIFO)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txs, err := dbTypes.GetTransactionsForAccount(s.db, account)
	if err != nil {
		config.Log.Error("Error fetching transactions for report request.", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	report, err := engine.ComputeReport(txs, year, method)
	if err != nil {
		// Caller-contract violations from the engine map to bad requests.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, d := range report.Diagnostics {
		config.Log.Warn("Report diagnostic for " + account + ": " + d.Message)
	}

	c.JSON(http.StatusOK, report)
}
