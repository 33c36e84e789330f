// Package spindle provides the core types for a tool-calling
// conversational loop: a model emits tool invocations as JSON embedded
// in free-form text, the loop executes them against a closed set of
// information tools (web search, URL reading, instant answers), feeds
// the results back into the conversation, and resumes generation until
// the model produces a final answer.
//
// The root package holds the shared vocabulary: [Message] turns,
// [ToolCall] variants, the [Generator] transport capability, and
// categorized errors. The orchestration lives in
// [github.com/spindlehq/spindle/convo]; provider construction in
// [github.com/spindlehq/spindle/client]; tool backends in
// [github.com/spindlehq/spindle/tool]; extraction of tool calls from
// raw model text in [github.com/spindlehq/spindle/extract]; and
// reasoning/answer segmentation in
// [github.com/spindlehq/spindle/segment].
//
// # Basic Usage
//
//	gen := client.New(client.Config{
//	    APIKeys:  client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Provider: spindle.ProviderOpenAI,
//	})
//	session := convo.NewSession(gen,
//	    convo.WithSearcher(tool.NewDuckDuckGoSearcher()),
//	    convo.WithFetcher(tool.NewHTTPFetcher()),
//	    convo.WithInstantAnswerer(tool.NewDuckDuckGoInstant()),
//	    convo.WithRenderer(myRenderer),
//	)
//
//	if err := session.Send(ctx, "What is the population of Reykjavík?"); err != nil {
//	    log.Fatal(err)
//	}
//
// The session detects tool calls in the model output, executes each
// distinct call at most once, paginates long pages under model-driven
// continuation decisions, and keeps resuming generation until a turn
// yields no tool call.
package spindle
