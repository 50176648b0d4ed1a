// Package federation contains the domain model for the external data source
// federation layer: field mappings between a tenant's legacy schema and the
// platform's canonical model, the per-tenant data source configuration, the
// canonical DTOs returned to business services, and the reader contracts
// implemented by the internal and external adapters.
package federation
