package domain

// Rect is the axis-aligned bounding rectangle of a decoded code inside the
// source image, in pixel coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// QRPayload is one decoded code from an uploaded image.
type QRPayload struct {
	// Data is the decoded text content of the code.
	Data string `json:"data"`
	// Type is the symbology name, e.g. "QR_CODE".
	Type string `json:"type"`
	// Rect is the bounding rectangle of the code within the image.
	Rect Rect `json:"rect"`
}
