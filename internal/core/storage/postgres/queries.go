package postgres

// SQL queries for definition, instance and report storage.

const (
	// querySchemaTables lists the tables the adapters need; validateSchema compares against requiredTables.
	querySchemaTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_name = ANY($1)
	`

	// queryGetVersions returns every non-deleted version of a key, across tenants.
	// Numeric ordering happens in Go; version strings are not guaranteed numeric.
	queryGetVersions = `
		SELECT DISTINCT version
		FROM definitions
		WHERE definition_type = $1
		  AND definition_key = $2
		  AND NOT deleted
	`

	queryGetTenants = `
		SELECT DISTINCT tenant_id
		FROM definitions
		WHERE definition_type = $1
		  AND definition_key = $2
		  AND version = ANY($3)
		  AND NOT deleted
	`

	// queryIsDeleted treats a version as deleted only when every tenant's copy is deleted.
	queryIsDeleted = `
		SELECT COUNT(*), COALESCE(BOOL_AND(deleted), FALSE)
		FROM definitions
		WHERE definition_type = $1
		  AND definition_key = $2
		  AND version = $3
	`

	queryGetVariables = `
		SELECT variables
		FROM definitions
		WHERE definition_type = $1
		  AND definition_key = $2
		  AND version = ANY($3)
		  AND tenant_id = ANY($4)
		  AND NOT deleted
	`

	queryUpsertDefinition = `
		INSERT INTO definitions (
			definition_type, definition_key, version, tenant_id,
			name, deleted, variables, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (definition_type, definition_key, version, tenant_id)
		DO UPDATE SET
			name       = EXCLUDED.name,
			deleted    = EXCLUDED.deleted,
			variables  = EXCLUDED.variables,
			updated_at = EXCLUDED.updated_at
	`

	queryFindInstances = `
		SELECT
			id, definition_type, definition_key, definition_version, tenant_id,
			state, start_date, end_date, variables, user_tasks
		FROM instances
		WHERE definition_type = $1
		  AND definition_key = $2
		  AND definition_version = ANY($3)
		  AND tenant_id = ANY($4)
		ORDER BY start_date DESC, id ASC
	`

	queryUpsertInstance = `
		INSERT INTO instances (
			id, definition_type, definition_key, definition_version, tenant_id,
			state, start_date, end_date, variables, user_tasks
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			definition_type    = EXCLUDED.definition_type,
			definition_key     = EXCLUDED.definition_key,
			definition_version = EXCLUDED.definition_version,
			tenant_id          = EXCLUDED.tenant_id,
			state              = EXCLUDED.state,
			start_date         = EXCLUDED.start_date,
			end_date           = EXCLUDED.end_date,
			variables          = EXCLUDED.variables,
			user_tasks         = EXCLUDED.user_tasks
	`

	queryGetReport = `SELECT definition FROM reports WHERE id = $1`

	queryCollectionExists = `SELECT EXISTS (SELECT 1 FROM collections WHERE id = $1)`

	queryGetCollectionScope = `
		SELECT definition_type, definition_key, tenant_ids
		FROM collection_scopes
		WHERE collection_id = $1
		ORDER BY definition_type ASC, definition_key ASC
	`
)
