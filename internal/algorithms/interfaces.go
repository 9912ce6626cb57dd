package algorithms

import (
	"color-transfer/internal/models"
)

// Algorithm generates a 256x16 RGBA colour lookup table from an input and
// a reference image.
type Algorithm interface {
	GenerateLUT(input, reference *models.Image, params map[string]interface{}) (*models.TransferResult, error)
	ValidateParameters(params map[string]interface{}) error
	GetDefaultParameters() map[string]interface{}
	GetName() string
}
