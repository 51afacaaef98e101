package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// callerFrom rebuilds the request actor from the verified token claims the
// auth middleware stored on the context.
func callerFrom(c *gin.Context) (services.Caller, bool) {
	ctx := c.Request.Context()
	userID, err := middlewares.ExtractUserIDFromContext(ctx)
	if err != nil {
		middlewares.HttpError(c, http.StatusUnauthorized, "missing authentication", err)
		return services.Caller{}, false
	}
	tenantID, err := middlewares.ExtractTenantIDFromContext(ctx)
	if err != nil {
		middlewares.HttpError(c, http.StatusUnauthorized, "missing authentication", err)
		return services.Caller{}, false
	}
	role, err := middlewares.ExtractUserRoleFromContext(ctx)
	if err != nil {
		middlewares.HttpError(c, http.StatusUnauthorized, "missing authentication", err)
		return services.Caller{}, false
	}
	return services.Caller{UserID: userID, TenantID: tenantID, Role: role}, true
}

// pathID parses a numeric path parameter; zero or malformed values fail.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter; absent means zero.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// fail renders a service error through the response envelope.
func fail(c *gin.Context, err error) {
	status, message := services.StatusOf(err)
	middlewares.HttpError(c, status, message, err)
}
