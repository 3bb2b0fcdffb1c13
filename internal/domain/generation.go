package domain

// Tier indica que nivel de la cadena de proveedores sirvio la respuesta. Es solo informativo.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
)

// Image es la salida de un proveedor de imagen: bytes inline o una URL resoluble.
type Image struct {
	Data     []byte
	MIMEType string
	URL      string
}

func (i Image) IsReference() bool {
	return len(i.Data) == 0 && i.URL != ""
}

type TextResult struct {
	Answer string
	Tier   Tier
}

// ImageResult incluye prompt y seed para que el cliente pueda reproducir un fallback por URL.
type ImageResult struct {
	Image    Image
	Prompt   string
	Seed     int64
	Tier     Tier
	Fallback bool
}
