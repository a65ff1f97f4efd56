package extraction

import "fmt"

// systemPrompt pins the model to its single job. Everything else lives in
// the user message so providers that fold system messages into the prompt
// behave the same.
const systemPrompt = `You are a receipt parser. Return ONLY valid JSON matching the requested schema. No prose, no markdown.`

const userPromptFormat = `You are given OCR text from a retail receipt (Polish or English).

YOUR TASK:
Extract the purchased products ONLY from the "TEXT TO ANALYZE" section below.
Do NOT copy the training examples into your answer.

--- TRAINING EXAMPLES (DO NOT COPY) ---
Input: "Danie barowe B 1szt.*16.00" -> {"items": [{"productName": "Danie barowe", "price": 16.00, "quantity": 1.0}]}
Input: "Woda Min. 2 x 5,00" -> {"items": [{"productName": "Woda Min.", "price": 5.00, "quantity": 2.0}]}
--- END OF EXAMPLES ---

RULES:
- quantity defaults to 1.0 unless the line states otherwise
- every physical occurrence of a repeated product is a separate item, never aggregate
- correct obvious OCR typos in product names
- price is a number in currency units

TEXT TO ANALYZE (take data only from here):
'''
%s
'''

Return a JSON object with an "items" key: {"items": [{"productName": string, "price": number, "quantity": number}]}`

func userPrompt(receiptText string) string {
	return fmt.Sprintf(userPromptFormat, receiptText)
}
