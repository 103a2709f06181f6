package llm

import "context"

// Purpose labels recorded with each request.
const (
	PurposeQuestionGen = "question-gen"
	PurposeParse       = "mcq-parse"
)

// requestTags describe a request for the event log.
type requestTags struct {
	purpose string
	subject string
}

type tagsKey struct{}

func tagsFrom(ctx context.Context) requestTags {
	t, _ := ctx.Value(tagsKey{}).(requestTags)
	return t
}

// WithPurpose labels requests made with ctx, e.g. PurposeQuestionGen.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	t := tagsFrom(ctx)
	t.purpose = purpose
	return context.WithValue(ctx, tagsKey{}, t)
}

// WithSubject records the exam subject requests made with ctx are for.
func WithSubject(ctx context.Context, subject string) context.Context {
	t := tagsFrom(ctx)
	t.subject = subject
	return context.WithValue(ctx, tagsKey{}, t)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := tagsFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// SubjectFrom returns the subject label, which may be empty.
func SubjectFrom(ctx context.Context) string {
	return tagsFrom(ctx).subject
}
