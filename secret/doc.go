// Package secret resolves credentials referenced from configuration, so
// header values and signing keys never have to be written in plain text.
//
// A value may reference environment variables (${VAR}, expanded strictly:
// a missing variable is an error) and secret providers through
// "secretref:<provider>:<ref>":
//   - Full value:  secretref:env:API_TOKEN
//   - Inline use:  Bearer secretref:file:/run/secrets/api_token
//
// [EnvProvider], [FileProvider] and [MapProvider] cover process
// environment, mounted secret files and static maps.
package secret
