package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tbestore/storefront/admin/otel"
	"github.com/tbestore/storefront/admin/service"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	commonHttp "github.com/tbestore/storefront/internal/common/http"
	"github.com/tbestore/storefront/internal/log"
)

type AdminController struct {
	service *service.AdminService
}

func AttachAdminController(router *mux.Router, service *service.AdminService) {
	controller := AdminController{service: service}

	router.HandleFunc("/customers", controller.Customers).Methods(http.MethodGet)
	router.HandleFunc("/orders", controller.Orders).Methods(http.MethodGet)
}

func (t AdminController) Customers(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController Customers")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Customers").
		Logger()

	c = logger.WithContext(c)
	customers, err := t.service.Customers(c, r.URL.Query().Get("q"))
	if err != nil {
		err = fmt.Errorf("failed listing customers with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       customers,
	})
}

func (t AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AdminController Orders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Orders").
		Logger()

	c = logger.WithContext(c)
	orders, err := t.service.Orders(c, r.URL.Query().Get("cid"), r.URL.Query().Get("q"))
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       orders,
	})
}
