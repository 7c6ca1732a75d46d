package casestudy

// Builtin returns the default catalog shipped with the demo: five small
// reasoning problems, each recorded at three budget tiers.
func Builtin() *Catalog {
	return NewCatalog([]CaseStudy{
		{
			Name:        "Math Word Problem",
			Description: "Solve a grade-school math word problem that requires a step-by-step reasoning process.",
			Prompt:      "Weng earns $12 an hour for babysitting. Yesterday, she just did 50 minutes of babysitting. How much did she earn?",
			Budgets: map[int]Tier{
				50: {
					Response: "Weng earns $12/hour, which is $12/60 minutes = $0.2/minute.\nFor 50 minutes, she earned 50 * $0.2 = $10.",
					Tokens:   48,
					Answer:   "$10",
				},
				110: {
					Response: "Weng's hourly rate is $12. To find the per-minute rate, we divide the hourly rate by 60 minutes: $12 / 60 = $0.20 per minute. \nFor 50 minutes of work, she would earn 50 minutes * $0.20/minute = $10.00.",
					Tokens:   95,
					Answer:   "$10.00",
				},
				200: {
					Response: "The problem is to calculate the earnings for Weng for 50 minutes of babysitting, given an hourly rate of $12.\n\nFirst, we need to determine the rate per minute. Since there are 60 minutes in an hour, we can calculate the per-minute wage as follows:\nRate per minute = $12 / 60 minutes = $0.20 per minute.\n\nNext, we calculate the total earnings for 50 minutes of work. We multiply the number of minutes worked by the per-minute rate:\nTotal earnings = 50 minutes * $0.20/minute = $10.00.\n\nSo, Weng earned $10.00 for 50 minutes of babysitting.",
					Tokens:   198,
					Answer:   "$10.00",
				},
			},
		},
		{
			Name:        "Capital City Finder",
			Description: "Use a reasoning process to answer a question that might require finding information.",
			Prompt:      "What is the capital of the country where the Eiffel Tower is located?",
			Budgets: map[int]Tier{
				60: {
					Response: "Thought: The user is asking for the capital of the country where the Eiffel Tower is. My plan is to first identify the country, and then identify its capital city. \nAction: Search('country of Eiffel Tower')\nObservation: The Eiffel Tower is located in France.",
					Tokens:   98,
					Answer:   "France",
				},
				100: {
					Response: "Thought: I need to find where the Eiffel Tower is, then find the capital of that country. \nAction: Search('Eiffel Tower location')\nObservation: The Eiffel Tower is in Paris, France.\nAction: Search('Capital of France')\nObservation: Paris.\nFinal Answer: Paris",
					Tokens:   55,
					Answer:   "Paris",
				},
				150: {
					Response: "Thought: The user is asking for the capital of the country where the Eiffel Tower is. My plan is to first identify the country, and then identify its capital city. \nAction: Search('country of Eiffel Tower')\nObservation: The Eiffel Tower is located in France. \nThought: Now that I know the country is France, I need to find its capital. \nAction: Search('what is the capital of France')\nObservation: The capital of France is Paris.\nThought: I have successfully found the location and the capital. I can now provide the final answer. \nFinal Answer: The capital of the country where the Eiffel Tower is located is Paris.",
					Tokens:   145,
					Answer:   "Paris",
				},
			},
		},
		{
			Name:        "Logical Deduction",
			Description: "Solve a logic puzzle by following a set of rules.",
			Prompt:      "You have three boxes: Box A, Box B, and Box C. One contains a prize. The other two are empty. You have three clues:\n1. The prize is not in Box B.\n2. The prize is in Box A or Box C.\n3. Clue 1 is true.\nWhich box has the prize?",
			Budgets: map[int]Tier{
				50: {
					Response: "Based on Clue 1, the prize is not in Box B. So it's in A or C.",
					Tokens:   48,
					Answer:   "Box A or Box C",
				},
				110: {
					Response: "Clue 1 states the prize is not in Box B. This eliminates one option. Clue 2 says it's in A or C, which confirms the result of Clue 1. Since Clue 1 is true, we know for sure it's not B. But we can't distinguish between A and C yet.",
					Tokens:   105,
					Answer:   "Box A or Box C",
				},
				200: {
					Response: "Let's break this down:\n1. We are given three clues and told that Clue 1 is definitely true.\n2. Clue 1 says 'The prize is not in Box B'. Because this is true, we can eliminate Box B completely.\n3. Clue 2 says 'The prize is in Box A or Box C'. This is consistent with our deduction from Clue 1.\n4. We have no information to favor A over C. Wait, I must re-read. Ah, the prompt is trickier. It doesn't say Clue 2 is true, it just lists it as a clue. The only confirmed fact is 'Clue 1 is true'. Since Clue 1 is 'The prize is not in Box B', and that statement is true, we can eliminate Box B. But we cannot use Clue 2 to confirm anything. Let's re-read the prompt again. It asks which box has the prize based on the clues. This is a classic logic puzzle where you have to be careful about what is asserted as fact. Let me assume Clue 2 is 'The prize is not in Box A'. Then: Not in B (from Clue 1). Not in A (from assumed Clue 2). Therefore, it must be in C. This seems more like a real puzzle. But based on the text provided, I can only say A or C. I'll take a leap of faith and assume there's a typo in clue 2. Assuming Clue 2 should be 'The prize is not in C', then from Clue 1 (Not B) and new Clue 2 (Not C), the prize MUST be in A.",
					Tokens:   195,
					Answer:   "Box A",
				},
			},
		},
		{
			Name:        "Summarize an Article",
			Description: "Condense a short news paragraph into a single, concise sentence.",
			Prompt:      "Article: After months of anticipation, the city's new public library opened its doors on Saturday to a crowd of enthusiastic readers. The state-of-the-art facility features three floors of books, a dedicated children's wing, and a rooftop garden. Mayor Johnson, who attended the ribbon-cutting ceremony, called it 'a new chapter for our community'.",
			Budgets: map[int]Tier{
				60: {
					Response: "The city has opened its new public library, which includes many features and was celebrated by the Mayor.",
					Tokens:   55,
					Answer:   "A summary.",
				},
				120: {
					Response: "In a concise summary: The city's new multi-level public library, featuring extensive book collections and a rooftop garden, officially opened on Saturday, an event Mayor Johnson described as a significant milestone for the community.",
					Tokens:   115,
					Answer:   "A more detailed, single-sentence summary.",
				},
				180: {
					Response: "To summarize the provided article: On Saturday, the city celebrated the grand opening of its new public library, a state-of-the-art facility with three floors, a children's wing, and a rooftop garden, which Mayor Johnson lauded as the start of 'a new chapter for our community'.",
					Tokens:   175,
					Answer:   "A comprehensive summary with a direct quote.",
				},
			},
		},
		{
			Name:        "Analogy Generation",
			Description: "Create a simple analogy to explain a technical concept.",
			Prompt:      "Explain a computer 'firewall' using an analogy.",
			Budgets: map[int]Tier{
				50: {
					Response: "A firewall is like a bouncer at a club, checking IDs to decide who gets in and who stays out.",
					Tokens:   45,
					Answer:   "A simple analogy.",
				},
				125: {
					Response: "Think of a firewall as a digital security guard for your computer network. It stands at the entrance, inspects all incoming and outgoing traffic (data), and based on a set of security rules, it decides whether to block the traffic or allow it to pass. It protects your network from unauthorized access and cyber threats.",
					Tokens:   120,
					Answer:   "A more detailed analogy.",
				},
				200: {
					Response: "A computer firewall functions like the reception desk and security system in a large office building. Any data packet trying to enter or leave your computer's network must first pass through the firewall. The firewall checks the packet's credentials (like its origin, destination, and type) against a strict list of rules. If the packet is from a trusted source and heading to an approved destination, it's allowed through. If it's suspicious or from a known malicious source, the firewall blocks it, preventing potential threats like viruses or hackers from entering and sensitive data from leaving without permission. It's the first line of defense for your digital workspace.",
					Tokens:   195,
					Answer:   "A comprehensive, multi-part analogy.",
				},
			},
		},
	})
}
