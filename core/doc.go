// Package core provides the Cadence SDK client, transport, and response
// orchestration types.
//
// # Client
//
// The primary entry point is [Client], created with an API key:
//
//	client := core.New(os.Getenv("CADENCE_API_KEY"),
//	    core.WithBaseURL("https://api.cadencehq.io"),
//	    core.WithMaxRetries(2),
//	)
//
// Every call goes through the client's [Transport], which assembles paths
// and query strings, attaches the X-API-Key header, snake-cases outgoing
// bodies, camel-cases incoming JSON, and retries transient failures with
// jittered exponential backoff. Mutating requests are given a generated
// idempotency key so the server can deduplicate retried attempts; requests
// that are not idempotent-safe are attempted exactly once.
//
// # Responses
//
// Conversational AI responses are asynchronous: the server queues work and
// exposes an append-only progress log. [Client.Invoke] collects a response
// to completion:
//
//	resp, err := client.Invoke(ctx, &core.ResponseRequest{
//	    Messages: []core.Message{{Role: core.RoleUser, Content: "Draft a follow-up"}},
//	}, &core.InvokeOptions{OnProgress: core.NewProgressPrinter(os.Stderr).Update})
//
// [Client.InvokeStream] delivers progress incrementally instead:
//
//	stream, err := client.InvokeStream(ctx, req, nil)
//	for {
//	    entry, err := stream.Recv(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(entry.State, entry.Message)
//	}
//
// # Error Handling
//
// Failures surface as [*Error] with a closed [ErrorKind] tag, and unwrap to
// per-kind sentinels for errors.Is:
//
//	if errors.Is(err, core.ErrRateLimited) {
//	    // the transport already retried with Retry-After; back off harder
//	}
//
// The transport is the single point of HTTP error classification; resource
// services and the orchestrator propagate typed errors unchanged.
//
// # Thread Safety
//
// [Client] and [Transport] are safe for concurrent use; their configuration
// is read-only after construction. [ProgressStream] and [ProgressPrinter]
// hold per-session state and must be confined to one consumer.
package core
