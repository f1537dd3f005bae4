package ports

type OperationMetrics interface {
	RecordSuccess(operation string)
	RecordFailure(operation, code string)
	RecordRetry(operation string)
}
