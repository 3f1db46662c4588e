package postgresql

// migrations returns the schema migrations for the PostgreSQL backend, keyed
// by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				enabled BOOLEAN NOT NULL DEFAULT TRUE,
				trigger JSONB NOT NULL DEFAULT '{}'::jsonb,
				actions JSONB NOT NULL DEFAULT '[]'::jsonb,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				last_executed TIMESTAMP WITH TIME ZONE,
				execution_count BIGINT NOT NULL DEFAULT 0
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_trigger_type
				ON workflows ((trigger->>'type')) WHERE enabled;
		`,
		2: `
			CREATE TABLE IF NOT EXISTS executions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL,
				status TEXT NOT NULL,
				context JSONB NOT NULL DEFAULT '{}'::jsonb,
				results JSONB NOT NULL DEFAULT '[]'::jsonb,
				error TEXT NOT NULL DEFAULT '',
				triggered_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_executions_workflow_id
				ON executions (workflow_id, triggered_at DESC);
		`,
	}
}
