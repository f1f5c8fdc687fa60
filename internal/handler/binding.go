// Package handler wires the HTTP layer on top of the services. Each
// resource gets its own subpackage with a Handler and RegisterRoutes.
package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sigemech/admission-api/internal/identity"
)

// RegisterValidators installs the custom binding tags on gin's validator
// engine. Call once at startup, before the router is built.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cedula", func(fl validator.FieldLevel) bool {
		return identity.IsValidCedula(fl.Field().String())
	})
}
