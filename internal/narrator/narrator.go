// Package narrator turns an assessment the classifier already produced into
// commander-style prose. It never decides anything itself.
package narrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"suraksha_mesh/internal/models"
)

const (
	DefaultBaseURL   = "https://openrouter.ai/api/v1"
	DefaultModel     = "openai/gpt-4o-mini"
	DefaultMaxTokens = 512
	DefaultTimeout   = 20 * time.Second

	demoModel = "demo"
)

var errNoChoices = errors.New("no response choices returned")

// Completer is the part of the OpenAI client the narrator needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Narrative is the text shown to the shift commander.
type Narrative struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Demo  bool   `json:"demo"`
}

type Narrator struct {
	client Completer
	cfg    Config
}

// New builds a narrator talking to an OpenAI-compatible endpoint.
// Without an API key it only produces demo narratives.
func New(cfg Config) *Narrator {
	cfg = withDefaults(cfg)
	if cfg.APIKey == "" {
		return &Narrator{cfg: cfg}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &Narrator{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}
}

// NewWithClient uses c instead of a real API client.
func NewWithClient(cfg Config, c Completer) *Narrator {
	return &Narrator{client: c, cfg: withDefaults(cfg)}
}

func withDefaults(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// Live reports whether narratives come from the model.
func (n *Narrator) Live() bool {
	return n.client != nil
}

// Narrate renders a for humans. Errors never alter the verdict in a.
func (n *Narrator) Narrate(ctx context.Context, a models.Assessment) (Narrative, error) {
	if n.client == nil {
		return Narrative{Text: Demo(a), Model: demoModel, Demo: true}, nil
	}

	user, err := UserMessage(a)
	if err != nil {
		return Narrative{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     n.cfg.Model,
		MaxTokens: n.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return Narrative{}, fmt.Errorf("chat completion (%s): %w", n.cfg.Model, err)
	}
	if len(resp.Choices) == 0 {
		return Narrative{}, fmt.Errorf("chat completion (%s): %w", n.cfg.Model, errNoChoices)
	}

	return Narrative{
		Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
		Model: n.cfg.Model,
	}, nil
}

// SystemPrompt casts the model as the shift commander. The decision arrives
// pre-computed and must be repeated verbatim.
const SystemPrompt = `You are the SurakshaMesh Chief Safety Officer.
You receive a JSON object with a worker telemetry reading and a verdict that the
rule engine has ALREADY decided. Never change, soften or second-guess the
decision. Your job is to brief the floor crew.

Rules:
1. Restate the decision exactly as given.
2. Turn the recommended actions into short, shouted, supervisor-style commands.
3. Cite the sensor readings and reasons that triggered the decision.
4. Write the audio script in Hinglish (Hindi and English mixed, Latin script),
   the way an Indian plant supervisor shouts over a loudspeaker.

Format:
## DECISION: <decision>
**Action Plan:**
* <step>

**Audio Script:**
"<one urgent Hinglish line addressed to the worker>"`

type briefing struct {
	AssessmentID string                  `json:"assessment_id"`
	Reading      models.TelemetryReading `json:"reading"`
	Verdict      models.Verdict          `json:"verdict"`
}

// UserMessage is the JSON payload sent with the system prompt.
func UserMessage(a models.Assessment) (string, error) {
	b, err := json.Marshal(briefing{AssessmentID: a.ID, Reading: a.Reading, Verdict: a.Verdict})
	if err != nil {
		return "", fmt.Errorf("encode briefing: %w", err)
	}
	return string(b), nil
}

// Demo renders a narrative from the verdict alone, in the same layout the
// model is asked for.
func Demo(a models.Assessment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## DECISION: %s\n", a.Verdict.Decision)
	sb.WriteString("**Action Plan:**\n")
	for _, act := range a.Verdict.RecommendedActions {
		fmt.Fprintf(&sb, "* %s\n", act)
	}
	sb.WriteString("\n**Reasons:**\n")
	for _, r := range a.Verdict.Reasons {
		fmt.Fprintf(&sb, "* %s\n", r)
	}
	fmt.Fprintf(&sb, "\n**Audio Script:**\n%q\n", audioLine(a))
	return sb.String()
}

// audioLine is the Hinglish loudspeaker call for a.
func audioLine(a models.Assessment) string {
	who := a.Reading.WorkerID
	switch a.Verdict.Decision {
	case models.DecisionCritical:
		where := "yahan"
		if z := strings.TrimSpace(a.Reading.Zone); z != "" {
			where = z + " se"
		}
		line := who + "! " + where + " turant bahar niklo!"
		if len(a.Verdict.RecommendedActions) > 0 {
			line += " " + a.Verdict.RecommendedActions[0] + "!"
		}
		return line
	case models.DecisionMonitor:
		return who + ", dhyan rakho. Supervisor aapki readings check kar raha hai."
	default:
		return who + ", sab theek hai. Kaam jaari rakho."
	}
}
