package server

import (
	"net/http"
	"strconv"
	"time"

	"ebroker-go/internal/models"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}

// queryTime parses the optional time parameter, defaulting to the current
// wall clock. Supplying the time explicitly keeps the operating-hours gate
// deterministic for callers that need it.
func queryTime(c *gin.Context) (time.Time, bool) {
	raw := c.Query("time")
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time must be RFC3339"})
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) buyEquity(c *gin.Context) {
	traderID, ok := queryInt(c, "traderId")
	if !ok {
		return
	}
	equityID, ok := queryInt(c, "equityId")
	if !ok {
		return
	}
	quantity, ok := queryInt(c, "quantity")
	if !ok {
		return
	}
	at, ok := queryTime(c)
	if !ok {
		return
	}

	done, err := s.traders.BuyEquity(traderID, equityID, quantity, at)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !done {
		c.JSON(http.StatusBadRequest, gin.H{"status": false})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sellEquity(c *gin.Context) {
	traderID, ok := queryInt(c, "traderId")
	if !ok {
		return
	}
	equityID, ok := queryInt(c, "equityId")
	if !ok {
		return
	}
	quantity, ok := queryInt(c, "quantity")
	if !ok {
		return
	}
	at, ok := queryTime(c)
	if !ok {
		return
	}

	done, err := s.traders.SellEquity(traderID, equityID, quantity, at)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !done {
		c.JSON(http.StatusBadRequest, gin.H{"status": false})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addFunds(c *gin.Context) {
	traderID, ok := queryInt(c, "traderId")
	if !ok {
		return
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}

	done, err := s.traders.AddFunds(traderID, amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !done {
		c.JSON(http.StatusBadRequest, gin.H{"status": false})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listTraders(c *gin.Context) {
	traders, err := s.traders.GetAll()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, traders)
}

func (s *Server) getTrader(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	trader, err := s.traders.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if trader == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, trader)
}

func (s *Server) createTrader(c *gin.Context) {
	var trader models.Trader
	if err := c.ShouldBindJSON(&trader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.traders.Insert(&trader)
	if err != nil {
		s.writeError(c, err)
		return
	}
	trader.ID = id
	c.JSON(http.StatusCreated, trader)
}

func (s *Server) updateTrader(c *gin.Context) {
	var trader models.Trader
	if err := c.ShouldBindJSON(&trader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := s.traders.GetByID(trader.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if existing == nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := s.traders.Update(&trader); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trader)
}

func (s *Server) deleteTrader(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	existing, err := s.traders.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if existing == nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := s.traders.Delete(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listEquities(c *gin.Context) {
	equities, err := s.equities.GetAll()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, equities)
}

func (s *Server) getEquity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	equity, err := s.equities.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if equity == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, equity)
}

func (s *Server) createEquity(c *gin.Context) {
	var equity models.Equity
	if err := c.ShouldBindJSON(&equity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.equities.Insert(&equity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	equity.ID = id
	c.JSON(http.StatusCreated, equity)
}

func (s *Server) updateEquity(c *gin.Context) {
	var equity models.Equity
	if err := c.ShouldBindJSON(&equity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := s.equities.GetByID(equity.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if existing == nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := s.equities.Update(&equity); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, equity)
}

func (s *Server) deleteEquity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	existing, err := s.equities.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if existing == nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := s.equities.Delete(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
