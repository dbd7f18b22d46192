package output

import "context"

type ProgressPort interface {
	ShowStep(ctx context.Context, step, maxSteps int)
	ShowThinking(ctx context.Context, content string)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
}
