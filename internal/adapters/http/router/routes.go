package router

const (
	HealthRoute = "/healthz"

	APIPrefix = "/api"

	CSRFTokenRoute      = APIPrefix + "/csrf-token"
	LoginRoute          = APIPrefix + "/auth/login"
	RegisterRoute       = APIPrefix + "/auth/register"
	OAuthCallbackPrefix = APIPrefix + "/auth/callback/"
	PingRoute           = APIPrefix + "/ping"
)
