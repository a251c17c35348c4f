package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/albapepper/fpl-league-report/internal/api/respond"
	"github.com/albapepper/fpl-league-report/internal/cache"
	"github.com/albapepper/fpl-league-report/internal/league"
	"github.com/albapepper/fpl-league-report/internal/provider/fpl"
)

// XLSXContentType is the media type of the workbook download.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetReport returns the season workbook for a league.
// @Summary Download league report
// @Description Builds (or serves from cache) the three-sheet workbook: Transfers, Chip Usage and Captaincy. Triple-captain gameweeks are highlighted.
// @Tags report
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param league query int false "Classic league id (defaults to the configured league)"
// @Param refresh query bool false "Drop the cached report and rebuild it"
// @Success 200 {file} file
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /report [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueParam(w, r)
	if !ok {
		return
	}
	h.maybeInvalidate(r, leagueID)

	entry, hit, err := h.gen.Workbook(r.Context(), leagueID)
	if err != nil {
		h.writeBuildError(w, r, leagueID, err)
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), entry.ETag) {
		respond.WriteNotModified(w, entry.ETag)
		return
	}
	respond.WriteAttachment(w, entry.Data, XLSXContentType, h.reportFilename(leagueID), entry.ETag, h.cache.TTL(), hit)
}

// GetReportSummary returns the report tables as JSON.
// @Summary League report as JSON
// @Description Same tables as the workbook, one object per row keyed by column header. Absent values are "-".
// @Tags report
// @Produce json
// @Param league query int false "Classic league id (defaults to the configured league)"
// @Param refresh query bool false "Drop the cached report and rebuild it"
// @Success 200 {object} pipeline.Summary
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /report/summary [get]
func (h *Handler) GetReportSummary(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueParam(w, r)
	if !ok {
		return
	}
	h.maybeInvalidate(r, leagueID)

	entry, hit, err := h.gen.SummaryJSON(r.Context(), leagueID)
	if err != nil {
		h.writeBuildError(w, r, leagueID, err)
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), entry.ETag) {
		respond.WriteNotModified(w, entry.ETag)
		return
	}
	respond.WriteJSON(w, entry.Data, entry.ETag, h.cache.TTL(), hit)
}

func (h *Handler) leagueParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("league")
	if raw == "" {
		return h.cfg.LeagueID, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_LEAGUE", "league must be a positive integer")
		return 0, false
	}
	return id, true
}

// maybeInvalidate drops the league's cached renderings when the request asks
// for a rebuild with ?refresh=1.
func (h *Handler) maybeInvalidate(r *http.Request, leagueID int) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	if !refresh {
		return
	}
	h.cache.Invalidate(leagueID)
	h.logger.Info("Cached report invalidated", "league_id", leagueID)
}

func (h *Handler) reportFilename(leagueID int) string {
	if leagueID == h.cfg.LeagueID && h.cfg.ReportFile != "" {
		return filepath.Base(h.cfg.ReportFile)
	}
	return fmt.Sprintf("fpl_league_%d_report.xlsx", leagueID)
}

func (h *Handler) writeBuildError(w http.ResponseWriter, r *http.Request, leagueID int, err error) {
	switch {
	case r.Context().Err() != nil || errors.Is(err, context.Canceled):
		h.logger.Warn("Report build cancelled", "league_id", leagueID, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "CANCELLED", "Report build was cancelled")
	case errors.Is(err, league.ErrNoEntries):
		respond.WriteError(w, http.StatusNotFound, "LEAGUE_EMPTY",
			fmt.Sprintf("League %d has no entries", leagueID))
	case fpl.IsUnavailable(err):
		h.logger.Warn("League data unavailable", "league_id", leagueID, "error", err)
		respond.WriteErrorDetail(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE",
			fmt.Sprintf("FPL data for league %d is unavailable", leagueID), err.Error())
	default:
		h.logger.Error("Report build failed", "league_id", leagueID, "error", err)
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "BUILD_FAILED", "Report build failed", err.Error())
	}
}
