package udsv

// ContentType is the MIME type reported by the UDSV codec.
const ContentType = "text/x-udsv"

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec.
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// udsvCodec implements Codec for UDSV.
type udsvCodec struct{}

// New returns a UDSV codec.
func New() Codec {
	return &udsvCodec{}
}

// ContentType returns the MIME type for UDSV.
func (c *udsvCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v as a UDSV record.
func (c *udsvCodec) Marshal(v any) ([]byte, error) {
	return Marshal(v)
}

// Unmarshal decodes a UDSV record into v.
func (c *udsvCodec) Unmarshal(data []byte, v any) error {
	return Unmarshal(data, v)
}
