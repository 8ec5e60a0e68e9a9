// Package apifault translates errors escaping HTTP handlers into a
// stable JSON error contract.
//
// Handlers return their failures instead of formatting responses; the
// translator, installed as the Fiber app's ErrorHandler, classifies each
// error and renders the response envelope.
//
// # Categories
//
//   - *failure.Error: declared validation failures (400)
//   - validator.ValidationErrors: request binding failures (400)
//   - data access errors: driver errors, missing rows, unknown query
//     properties (500, "Invalid query")
//   - *fiber.Error: failures raised inside the framework (the error's
//     own status code)
//   - anything else: uncaught failures (500, "Internal error")
//
// # Usage
//
// Install the translator when creating the app:
//
//	translator := apifault.New(apifault.DefaultConfig(logger))
//	app := fiber.New(fiber.Config{
//	    ErrorHandler: translator.Handler(),
//	})
//
// Every translation is logged. 5xx translations can be reported to
// Sentry and all translations counted in Prometheus.
package apifault
