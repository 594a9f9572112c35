// Package generation defines the boundary between the application core and
// external text-generation (LLM) services. A Provider turns a prompt into raw
// text; failures are reported as *ProviderError values classified by the kind
// sentinels in this package. NewGuardedProvider adds a per-call deadline and a
// circuit breaker around any Provider.
package generation
