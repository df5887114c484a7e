// internal/oracle/prompt.go
package oracle

import (
	"fmt"

	"github.com/xkilldash9x/nullpath-cli/internal/analysis/npd"
)

// systemPrompt frames the oracle as a security analyst. Kept separate from
// the user prompt so providers that support system instructions use it
// natively.
const systemPrompt = "You are an expert code security analyst specializing in finding vulnerabilities in source code."

// userPromptTemplate asks for path-sensitive reasoning about one candidate
// and demands a bare JSON object in return.
const userPromptTemplate = `Analyze the following Python function for a potential null pointer dereference (NPD).

Function code:
` + "```python\n%s\n```" + `

Facts established by static analysis:
- The variable ` + "`%s`" + ` is assigned None on line %d.
- The variable ` + "`%s`" + ` has an attribute accessed on line %d.

Analyze carefully:
1. Is there an execution path from line %d to line %d on which the variable is still None when the attribute is accessed?
2. If a dangerous path exists, what condition triggers it (for example: a specific if-condition being false)?
3. Is this a real NPD bug, or is the access guarded (for example by an "if x is not None" check)?
4. How severe is the bug?

Respond with exactly one JSON object and nothing else (no markdown fences, no commentary):
{
    "has_dangerous_path": true,
    "path_description": "describe the execution path, e.g. when flag is False the variable stays None",
    "trigger_condition": "e.g. flag=False",
    "is_bug": true,
    "severity": "High",
    "reason": "justification for the verdict"
}

Rules:
- "has_dangerous_path": true only if some path reaches the access with the variable still None.
- "is_bug": false if the access is protected by a guard.
- "severity" must be one of: Critical, High, Medium, Low.`

// buildPrompt renders the verification request for one candidate. The
// request is a pure function of the candidate, so re-submission on retry is
// idempotent.
func buildPrompt(cand npd.Candidate) string {
	return fmt.Sprintf(userPromptTemplate,
		cand.Function.Body,
		cand.Variable, cand.SourceLine,
		cand.Variable, cand.SinkLine,
		cand.SourceLine, cand.SinkLine,
	)
}
