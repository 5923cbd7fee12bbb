package http

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/state-stats-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/dataset"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/geosource"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// maxFeatureBody caps uploaded GeoJSON/TopoJSON payloads.
const maxFeatureBody = 32 << 20

func criteriaFromQuery(c *gin.Context) (dashboard.FilterCriteria, error) {
	return dashboard.ParseCriteria(c.Query("region"), c.Query("legalStatus"), c.Query("dataView"), c.Query("searchTerm"))
}

// sortFromQuery returns nil when neither sortBy nor sortDirection is given.
func sortFromQuery(c *gin.Context) (*dashboard.SortSpec, error) {
	metric, direction := c.Query("sortBy"), c.Query("sortDirection")
	if strings.TrimSpace(metric) == "" && strings.TrimSpace(direction) == "" {
		return nil, nil
	}
	spec, err := dashboard.ParseSort(metric, direction)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (r *Router) writeError(c *gin.Context, err error) {
	var verr *dashboard.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}
	r.logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", c.GetString("requestID")),
		slog.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (r *Router) listAll(c *gin.Context) {
	c.JSON(http.StatusOK, r.service.All())
}

func (r *Router) listFiltered(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	spec, err := sortFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.service.List(criteria, spec))
}

func (r *Router) table(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	spec, err := dashboard.ParseSort(c.Query("sortBy"), c.Query("sortDirection"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	page, pageSize, err := dashboard.ParsePaging(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.service.Table(criteria, spec, page, pageSize))
}

func (r *Router) export(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	spec, err := sortFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	rows := r.service.List(criteria, spec)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=region-stats.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write(dataset.CSVHeader); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, row := range rows {
		if err := writer.Write(dataset.CSVRow(row)); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
	}
}

func (r *Router) summary(c *gin.Context) {
	c.JSON(http.StatusOK, r.service.Summary())
}

func (r *Router) legend(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.service.Legend(criteria))
}

func (r *Router) getState(c *gin.Context) {
	stat, ok := r.service.GetByKey(c.Param("stateId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "State not found"})
		return
	}
	c.JSON(http.StatusOK, stat)
}

func (r *Router) selectState(c *gin.Context) {
	stat, ok, err := r.service.Select(c.Request.Context(), c.Param("stateId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "State not found"})
		return
	}
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

func (r *Router) mapFillsFromBody(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxFeatureBody)
	features, err := geosource.Decode(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "feature payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.renderMap(c, criteria, features)
}

func (r *Router) mapFillsFromSource(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	if r.features == nil || !r.features.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": geosource.ErrDisabled.Error()})
		return
	}

	features, err := r.features.Features(c.Request.Context())
	if err != nil {
		if errors.Is(err, geosource.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		r.logger.WarnContext(c.Request.Context(), "feature source failed", slog.Any("error", err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "feature source unavailable"})
		return
	}
	r.renderMap(c, criteria, features)
}

func (r *Router) renderMap(c *gin.Context, criteria dashboard.FilterCriteria, features []model.Feature) {
	c.JSON(http.StatusOK, r.service.MapFills(c.Request.Context(), criteria, features))
}
