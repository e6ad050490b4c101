package contexthelpers

type contextKey string

const ProfileIDContextKey = contextKey("profileID")
const CurrentPathContextKey = contextKey("currentPath")
const CspNonceContextKey = contextKey("cspNonce")
const LanguageContextKey = contextKey("language")
