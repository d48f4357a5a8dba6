// Package prompt builds the chat messages for the completion endpoint: a
// fixed system instruction and a user instruction embedding the valid
// vocabularies, the category hint, the diff, and the required JSON schema.
package prompt

import (
	"fmt"
	"strings"
)

// System instructs the model on its role. Sent as the system message of
// every request.
const System = "You are a helpful assistant that analyzes git diffs and generates concise structured commit messages."

// Vocabulary holds the valid value sets embedded in the user prompt and
// offered during manual resolution.
type Vocabulary struct {
	CPUs     []string
	Machines []string
	Types    []string
}

// User builds the user message for one category's diff. category may be
// empty, in which case no hint line is included. When maxDiffBytes > 0 and
// the diff exceeds it, the diff is truncated with a marker so one huge diff
// cannot blow the request body.
func User(v Vocabulary, category, diff string, maxDiffBytes int) string {
	if maxDiffBytes > 0 && len(diff) > maxDiffBytes {
		diff = diff[:maxDiffBytes] + "\n\n[truncated]"
	}
	hint := ""
	if category != "" {
		hint = fmt.Sprintf("\nThe change type for this diff is **%s**.", category)
	}
	return fmt.Sprintf(`Analyze the following git diff and generate a CONCISE commit message in the format [cpu][machine][type] title followed by details.
The cpu can be: %s
The machine can be: %s
The type can be: %s%s

Requirements for the response:
1. Title should be brief but descriptive
2. Details should be limited to 2-3 key points maximum
3. Each detail should be short and focused
4. Avoid redundant information
5. Focus only on the most important changes

If any of cpu, machine, or type cannot be determined, set its value to "unknown".

The diff content is:

%s

Please return a JSON object in this format:
{
    "cpu": "detected_cpu",
    "machine": "detected_machine",
    "type": "change_type",
    "title": "brief_title",
    "details": ["key_point1", "key_point2"]
}`,
		strings.Join(v.CPUs, ", "),
		strings.Join(v.Machines, ", "),
		strings.Join(v.Types, ", "),
		hint,
		diff)
}
