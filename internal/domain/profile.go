package domain

// ProfilePicture records the storage object key of a user's avatar. The
// object itself lives in the media bucket; download URLs are signed on
// demand rather than stored.
type ProfilePicture struct {
	Entity
	PictureKey string `dynamodbav:"pictureKey" json:"pictureKey"`
}
