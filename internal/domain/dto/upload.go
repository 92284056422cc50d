package dto

// Upload is a document handed in with an application.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Documents are the optional attachments of a submission.
type Documents struct {
	Resume     *Upload
	Transcript *Upload
}
