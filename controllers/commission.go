package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CommissionController struct {
	Commissions *services.CommissionService
}

type CommissionRuleRequest struct {
	CommissionType string              `json:"commissionType" binding:"required"`
	Percentage     decimal.NullDecimal `json:"percentage"`
	FixedValue     decimal.NullDecimal `json:"fixedValue"`
}

func (r CommissionRuleRequest) input() services.CommissionRuleInput {
	return services.CommissionRuleInput{
		CommissionType: r.CommissionType,
		Percentage:     r.Percentage,
		FixedValue:     r.FixedValue,
	}
}

func (ctl *CommissionController) GetConfig(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	staffID, ok := uuidParamOrAbort(c, "id", "ID de profissional inválido")
	if !ok {
		return
	}

	cfg, err := ctl.Commissions.GetConfig(c.Request.Context(), salonID, staffID)
	if err != nil {
		respondServiceError(c, "get commission config", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (ctl *CommissionController) UpsertConfig(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	staffID, ok := uuidParamOrAbort(c, "id", "ID de profissional inválido")
	if !ok {
		return
	}

	var req CommissionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	cfg, err := ctl.Commissions.UpsertConfig(c.Request.Context(), salonID, staffID, req.input())
	if err != nil {
		respondServiceError(c, "upsert commission config", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (ctl *CommissionController) UpsertOverride(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	staffID, ok := uuidParamOrAbort(c, "id", "ID de profissional inválido")
	if !ok {
		return
	}
	serviceID, ok := uuidParamOrAbort(c, "serviceId", "ID de serviço inválido")
	if !ok {
		return
	}

	var req CommissionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	override, err := ctl.Commissions.UpsertOverride(c.Request.Context(), salonID, staffID, serviceID, req.input())
	if err != nil {
		respondServiceError(c, "upsert commission override", err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func (ctl *CommissionController) DeleteOverride(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	staffID, ok := uuidParamOrAbort(c, "id", "ID de profissional inválido")
	if !ok {
		return
	}
	serviceID, ok := uuidParamOrAbort(c, "serviceId", "ID de serviço inválido")
	if !ok {
		return
	}

	if err := ctl.Commissions.DeleteOverride(c.Request.Context(), salonID, staffID, serviceID); err != nil {
		respondServiceError(c, "delete commission override", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Regra do serviço removida"})
}

// ListCommissions answers ?staffId=&status=&from=&to= with the entries and their total.
func (ctl *CommissionController) ListCommissions(c *gin.Context) {
	salonID, filter, ok := ctl.filterFromQuery(c)
	if !ok {
		return
	}

	commissions, total, err := ctl.Commissions.List(c.Request.Context(), salonID, filter)
	if err != nil {
		respondServiceError(c, "list commissions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"commissions": commissions,
		"total":       total,
		"from":        filter.From.Format(utils.DateLayout),
		"to":          filter.To.Format(utils.DateLayout),
	})
}

func (ctl *CommissionController) ExportCommissions(c *gin.Context) {
	salonID, filter, ok := ctl.filterFromQuery(c)
	if !ok {
		return
	}

	commissions, total, err := ctl.Commissions.List(c.Request.Context(), salonID, filter)
	if err != nil {
		respondServiceError(c, "export commissions", err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteCommissionsXLSX(&buf, commissions, total); err != nil {
		respondServiceError(c, "write commissions xlsx", err)
		return
	}

	filename := fmt.Sprintf("comissoes_%s_%s.xlsx", filter.From.Format(utils.DateLayout), filter.To.Format(utils.DateLayout))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Backfill accrues the commissions missing for the salon's completed bookings.
func (ctl *CommissionController) Backfill(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	summary, err := ctl.Commissions.Backfill(c.Request.Context(), &salonID)
	if err != nil {
		respondServiceError(c, "commission backfill", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ctl *CommissionController) filterFromQuery(c *gin.Context) (salonID uuid.UUID, filter services.CommissionFilter, ok bool) {
	salonUUID, ok := salonIDOrAbort(c)
	if !ok {
		return salonID, filter, false
	}

	staffID, ok := optionalUUIDQuery(c, "staffId")
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de profissional inválido")
		return salonID, filter, false
	}
	from, to, err := utils.ParseDateRange(c.Query("from"), c.Query("to"), time.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Período inválido")
		return salonID, filter, false
	}

	return salonUUID, services.CommissionFilter{
		StaffID: staffID,
		Status:  c.Query("status"),
		From:    from,
		To:      to,
	}, true
}
