package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"dispatch/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// docsInstance names the swag registry entry the swagger UI reads doc.json from.
const docsInstance = "dispatch"

var registerDocsOnce sync.Once

// newRequestValidator checks every request that matches an operation of the
// document. Requests outside the document, such as the swagger UI, pass through.
func newRequestValidator(swagger *openapi3.T) (echo.MiddlewareFunc, error) {
	// Servers would pin validation to the hosts listed in the document.
	swagger.Servers = nil
	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := router.FindRoute(req)
			if errors.Is(err, routers.ErrPathNotFound) {
				return next(ctx)
			}
			if err != nil {
				return ctx.JSON(http.StatusMethodNotAllowed, servers.Error{
					Code:    http.StatusMethodNotAllowed,
					Message: err.Error(),
				})
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, servers.Error{
					Code:    http.StatusBadRequest,
					Message: validationMessage(err),
				})
			}
			return next(ctx)
		}
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		return "Invalid parameter " + reqErr.Parameter.Name
	}
	return "Invalid request: " + err.Error()
}

// apiDoc serves the embedded document through swag's registry.
type apiDoc []byte

func (d apiDoc) ReadDoc() string {
	return string(d)
}

// newDocsHandler registers the document with swag once per process and
// returns the swagger UI handler reading it.
func newDocsHandler(swagger *openapi3.T) (echo.HandlerFunc, error) {
	doc, err := json.Marshal(swagger)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	registerDocsOnce.Do(func() {
		swag.Register(docsInstance, apiDoc(doc))
	})
	return echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(docsInstance)), nil
}
