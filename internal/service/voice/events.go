package voice

import "encoding/json"

// Wire messages exchanged with the streaming speech model. The transport
// carries exactly one JSON object per frame.

// ClientMessage is the envelope for everything the bridge sends upstream.
// Exactly one field is set.
type ClientMessage struct {
	Setup         *SetupMessage  `json:"setup,omitempty"`
	RealtimeInput *RealtimeInput `json:"realtime_input,omitempty"`
	ToolResponse  *ToolResponse  `json:"tool_response,omitempty"`
}

// SetupMessage opens the conversation: the role-conditioned system
// instruction and the fixed tool grammar the model may call.
type SetupMessage struct {
	SystemInstruction string            `json:"system_instruction"`
	Tools             []ToolDeclaration `json:"tools"`
	InputSampleRate   int               `json:"input_sample_rate"`
	OutputSampleRate  int               `json:"output_sample_rate"`
}

// ToolDeclaration describes one callable function to the model.
type ToolDeclaration struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	RequiredArgs []string `json:"required_args"`
	OptionalArgs []string `json:"optional_args,omitempty"`
}

// RealtimeInput carries one captured microphone frame, base64 PCM16.
type RealtimeInput struct {
	Audio string `json:"audio"`
}

// ToolResponse returns function results to the model, keyed by call id
// and ordered as the calls arrived.
type ToolResponse struct {
	Results []ToolResult `json:"results"`
}

// ToolResult is one function outcome: a payload on success, or a
// structured refusal/error object the model can speak about.
type ToolResult struct {
	CallID  string          `json:"call_id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Refusal *Refusal        `json:"refusal,omitempty"`
	Error   *ToolError      `json:"error,omitempty"`
}

// Refusal is an authorization rejection. It is a result, not a failure;
// the conversation continues.
type Refusal struct {
	Reason string `json:"reason"`
}

// ToolError wraps a store failure into a speakable result.
type ToolError struct {
	Message string `json:"message"`
}

// ServerMessage is the envelope for everything the model sends down.
type ServerMessage struct {
	ServerContent *ServerContent `json:"server_content,omitempty"`
	ToolCall      *ToolCall      `json:"tool_call,omitempty"`
}

// ServerContent carries synthesized audio and turn boundaries.
type ServerContent struct {
	Audio        string `json:"audio,omitempty"` // base64 PCM16 at the output rate
	Interrupted  bool   `json:"interrupted,omitempty"`
	TurnComplete bool   `json:"turn_complete,omitempty"`
}

// ToolCall groups the function calls of one model turn.
type ToolCall struct {
	FunctionCalls []FunctionCall `json:"function_calls"`
}

// FunctionCall is one requested tool invocation.
type FunctionCall struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Args map[string]string `json:"args"`
}
