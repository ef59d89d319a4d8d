package xpay

// Version is the SDK release version, sent in the User-Agent header of
// platform requests.
const Version = "0.3.0"
