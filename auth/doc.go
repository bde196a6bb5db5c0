// Package auth decorates outgoing requests with credentials.
//
// A Decorator mutates an *http.Request before it is sent. Decorators compose
// with Chain and are applied in order by the httpcall client:
//
//	d := auth.Chain(
//		auth.JSONHeaders(),
//		auth.NewAPIKey("X-API-Key", "secretref:env:SERVICE_KEY", resolver),
//	)
//
// Credential values may be literal, "${VAR}" environment references, or
// "secretref:<provider>:<ref>" references resolved through a secret.Resolver.
package auth
