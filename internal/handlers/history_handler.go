package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/services"
	"github.com/tradevault/backend/pkg/chain"
	"go.uber.org/zap"
)

// HistoryHandler serves the per-entity history logs for contracts,
// documents and KYC records. Each append also records the event in the
// account's activity log and fans out notifications; those side writes are
// independent of the history write, which is the source of truth.
type HistoryHandler struct {
	contractLogs *services.HistoryService
	documentLogs *services.HistoryService
	kycLogs      *services.HistoryService
	roles        *services.RoleService
	activity     *services.ActivityService
	fanout       *services.FanoutService
	verifier     *chain.Verifier // nil when no chain endpoint is configured
	logger       *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(
	contractLogs, documentLogs, kycLogs *services.HistoryService,
	roles *services.RoleService,
	activity *services.ActivityService,
	fanout *services.FanoutService,
	verifier *chain.Verifier,
	logger *zap.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		contractLogs: contractLogs,
		documentLogs: documentLogs,
		kycLogs:      kycLogs,
		roles:        roles,
		activity:     activity,
		fanout:       fanout,
		verifier:     verifier,
		logger:       logger,
	}
}

// RegisterHistoryRoutes registers the history log routes.
func (h *HistoryHandler) RegisterHistoryRoutes(g *echo.Group) {
	g.POST("/contracts/logs", h.AppendContractLog)
	g.GET("/contracts/:address/logs", h.GetContractLogs)
	g.GET("/contracts/:address/roles", h.GetContractRoles)

	g.POST("/documents/logs", h.AppendDocumentLog)
	g.GET("/documents/:token_id/logs", h.GetDocumentLogs)
	g.GET("/documents/logs/search", h.SearchDocumentLogs)

	g.POST("/kyc/logs", h.AppendKYCLog)
	g.GET("/kyc/:token_id/logs", h.GetKYCLogs)
}

// AppendContractLog appends an entry to a contract's history, records the
// matching activity event and notifies admins, the executor and the
// contract's role holders.
func (h *HistoryHandler) AppendContractLog(c echo.Context) error {
	var req models.AddContractLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry := models.LogEntry{
		Action:      req.Action,
		Account:     req.Account,
		TxHash:      req.TxHash,
		Signer:      req.Signer,
		Executor:    req.Executor,
		Extra:       models.ExtraPayload(req.Extra),
		OnChainInfo: req.OnChainInfo,
		Timestamp:   req.Timestamp,
	}
	h.enrichOnChainInfo(c, &entry)

	stored, err := h.contractLogs.Append(c.Request().Context(), req.ContractAddress, entry)
	if err != nil {
		return httpError(err)
	}

	ctx := c.Request().Context()
	if _, err := h.activity.Record(ctx, models.AddActivityRequest{
		Account:         stored.Account,
		Type:            models.ActivityTypeOnChain,
		Action:          stored.Action,
		TxHash:          stored.TxHash,
		ContractAddress: req.ContractAddress,
		Extra:           req.Extra,
		OnChainInfo:     stored.OnChainInfo,
		Timestamp:       stored.Timestamp,
	}); err != nil {
		h.logger.Warn("activity record failed for contract log",
			zap.String("contract", req.ContractAddress), zap.Error(err))
	}

	payload := services.NotificationPayload{
		ExecutorID: stored.Account,
		Type:       "contractAction",
		Title:      "Contract " + stored.Action,
		Message:    "Action " + stored.Action + " was recorded on contract " + req.ContractAddress,
		ExtraData: map[string]any{
			"contractAddress": req.ContractAddress,
			"txHash":          stored.TxHash,
			"action":          stored.Action,
		},
	}
	h.fanout.NotifyAdminsAndExecutor(ctx, stored.Account, payload)
	if roles, err := h.roles.GetRoles(ctx, req.ContractAddress); err == nil {
		h.fanout.NotifyRoleHolders(ctx, []string{roles.Importer, roles.Exporter}, payload, stored.Account)
	} else {
		h.logger.Warn("role lookup failed for contract log fan-out",
			zap.String("contract", req.ContractAddress), zap.Error(err))
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": stored})
}

// GetContractLogs returns a contract's history in append order.
func (h *HistoryHandler) GetContractLogs(c echo.Context) error {
	history, err := h.contractLogs.Get(c.Request().Context(), c.Param("address"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": history})
}

// GetContractRoles resolves the importer/exporter of a contract from its
// deploy entry.
func (h *HistoryHandler) GetContractRoles(c echo.Context) error {
	roles, err := h.roles.GetRoles(c.Request().Context(), c.Param("address"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": roles})
}

// AppendDocumentLog appends an entry to a document's history.
func (h *HistoryHandler) AppendDocumentLog(c echo.Context) error {
	return h.appendTokenLog(c, h.documentLogs, "documentAction", "document")
}

// GetDocumentLogs returns a document's history in append order.
func (h *HistoryHandler) GetDocumentLogs(c echo.Context) error {
	history, err := h.documentLogs.Get(c.Request().Context(), c.Param("token_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": history})
}

// SearchDocumentLogs finds document histories by a field inside their
// entries, e.g. every document an account has acted on.
func (h *HistoryHandler) SearchDocumentLogs(c echo.Context) error {
	field := c.QueryParam("field")
	value := c.QueryParam("value")
	if field == "" || value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "field and value query parameters are required")
	}
	if field == "account" {
		value = models.NormalizeAddress(value)
	}
	histories, err := h.documentLogs.FindByEntryField(c.Request().Context(), field, value)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": histories})
}

// AppendKYCLog appends an entry to a KYC record's history.
func (h *HistoryHandler) AppendKYCLog(c echo.Context) error {
	return h.appendTokenLog(c, h.kycLogs, "kycAction", "KYC record")
}

// GetKYCLogs returns a KYC record's history in append order.
func (h *HistoryHandler) GetKYCLogs(c echo.Context) error {
	history, err := h.kycLogs.Get(c.Request().Context(), c.Param("token_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": history})
}

func (h *HistoryHandler) appendTokenLog(c echo.Context, svc *services.HistoryService, notifType, noun string) error {
	var req models.AddTokenLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry := models.LogEntry{
		Action:      req.Action,
		Account:     req.Account,
		TxHash:      req.TxHash,
		Signer:      req.Signer,
		Executor:    req.Executor,
		Extra:       models.ExtraPayload(req.Extra),
		OnChainInfo: req.OnChainInfo,
		Timestamp:   req.Timestamp,
	}
	h.enrichOnChainInfo(c, &entry)

	stored, err := svc.Append(c.Request().Context(), req.TokenID, entry)
	if err != nil {
		return httpError(err)
	}

	ctx := c.Request().Context()
	activityType := models.ActivityTypeBackend
	if stored.TxHash != "" {
		activityType = models.ActivityTypeOnChain
	}
	if _, err := h.activity.Record(ctx, models.AddActivityRequest{
		Account:   stored.Account,
		Type:      activityType,
		Action:    stored.Action,
		TxHash:    stored.TxHash,
		Extra:     req.Extra,
		Timestamp: stored.Timestamp,
	}); err != nil {
		h.logger.Warn("activity record failed for token log",
			zap.String("tokenId", req.TokenID), zap.Error(err))
	}

	h.fanout.NotifyAdminsAndExecutor(ctx, stored.Account, services.NotificationPayload{
		ExecutorID: stored.Account,
		Type:       notifType,
		Title:      noun + " " + stored.Action,
		Message:    "Action " + stored.Action + " was recorded on " + noun + " " + req.TokenID,
		ExtraData: map[string]any{
			"tokenId": req.TokenID,
			"action":  stored.Action,
		},
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": stored})
}

// enrichOnChainInfo attaches a verification snapshot when a verifier is
// configured and the caller did not supply one. Best-effort: a failed
// lookup leaves the entry unverified.
func (h *HistoryHandler) enrichOnChainInfo(c echo.Context, entry *models.LogEntry) {
	if h.verifier == nil || entry.OnChainInfo != nil || entry.TxHash == "" {
		return
	}
	info, err := h.verifier.Verify(c.Request().Context(), entry.TxHash)
	if err != nil {
		h.logger.Warn("on-chain verification failed",
			zap.String("txHash", entry.TxHash), zap.Error(err))
		return
	}
	entry.OnChainInfo = info
}
