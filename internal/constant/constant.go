package constant

// BucketName is the single bucket every storage operation targets. The
// deployment provisions it out of band, so it is deliberately not part of the
// configuration surface.
const BucketName = "s3drop-store"
