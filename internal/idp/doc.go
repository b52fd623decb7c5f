// Package idp defines the boundary between the session controller and the
// identity provider, and implements it for AWS Cognito user pools.
//
// The controller only ever sees the [Adapter] interface and the value types it
// trades in: [Config], [ClientState], [Request], [Event], [Status] and
// [Credentials]. Effectful operations are described by [Request] values and
// executed by [Adapter.Execute]; every outcome comes back as an [Event] that
// the controller folds through [Adapter.ApplyEvent]. The adapter's internal
// state is threaded through both calls as an opaque value, never shared.
//
// [CognitoAdapter] is the production implementation, built on aws-sdk-go-v2's
// cognitoidentityprovider (native auth flows) and cognitoidentity (federated
// credential exchange) clients, with a sqlite-backed [SessionCache] for the
// refresh token.
package idp
