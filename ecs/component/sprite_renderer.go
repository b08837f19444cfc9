package component

// SpriteRenderer displays one image at its entity's transform. Image is an
// image reference resolved by the render package.
type SpriteRenderer struct {
	Image   string
	FlipX   bool
	FlipY   bool
	Layer   int
	OriginX float64
	OriginY float64
}

var SpriteRendererComponent = NewComponent[*SpriteRenderer]()
