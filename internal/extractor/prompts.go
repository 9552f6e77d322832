package extractor

// sentinel is the abstention token the model is instructed to return when
// the context cannot answer the question. It maps to "no answer", never to
// answer text.
const sentinel = "UNABLE_TO_ANSWER"

// promptTemplate placeholders: question, rendered context block.
const promptTemplate = `Based on the following messages, answer this question: "%s"

Messages:
%s

Instructions:
- If the answer is a date, return it in YYYY-MM-DD format
- If the answer is a number, return just the number
- If the answer is a list (like restaurants), return a JSON array
- If you cannot find the answer, return "UNABLE_TO_ANSWER"
- Be concise and only return the direct answer, nothing else

Answer:`
