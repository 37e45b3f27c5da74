package evaluation

const generalPromptTemplate = `Analyze this resume and extract all relevant information. Format your response exactly as follows:

1. Career Summary
[Write a brief summary of the candidate's background]

2. ATS Score
Score: [number between 0-10]

3. Strengths and Weaknesses
Strengths: [List key strengths found in the resume]
Weaknesses: [List areas for improvement]

4. Suggestions to improve
[Provide improvement recommendations]

A. Work Experience
Matched Skills: [List actual work experience, job titles, companies, or write 'None' if no work experience found]

B. Certificates
Matched Skills: [List actual certificates, certifications, or write 'None' if no certificates found]

C. Projects
Matched Skills: [List actual projects, academic projects, or write 'None' if no projects found]

D. Technical Skills
Matched Skills: [List actual technical skills, programming languages, tools, or write 'None' if no technical skills found]

IMPORTANT: Look carefully through the resume text and extract real information. Only write 'None' if you cannot find any relevant information in that category.

Resume:
`

const jobMatchPromptTemplate = `You are an ATS evaluator. Analyze the following resume against the job description and provide a structured response in exactly this format:

1. Career Summary
Provide a concise summary of the candidate's background and experience.

2. ATS Score out of 10
Provide a single number between 0 and 10 representing the overall job match score.
Format: 'Score: X' where X is the number.

3. Job Details
Company: [Extract the company name from the job description]
Role: [Extract the job title/role from the job description]
Match Status: [Based on the ATS score above - write 'MATCHED' if score >= 6, otherwise write 'UNMATCHED']

4. Strengths and Weaknesses
Strengths: [List the candidate's strengths relevant to THIS SPECIFIC JOB]
Weaknesses: [List the candidate's weaknesses or gaps for THIS SPECIFIC JOB]

5. Suggestions to improve
Provide specific recommendations to improve match for THIS JOB.

A. Work Experience
Matched Skills: [List skills from work experience that match THIS JOB'S requirements]
Gaps: [List missing work experience requirements for THIS JOB]

B. Certificates
Matched Skills: [List relevant certificates that match THIS JOB'S requirements]
Gaps: [List missing certificate requirements for THIS JOB]

C. Projects
Matched Skills: [List relevant project skills that match THIS JOB'S requirements]
Gaps: [List missing project requirements for THIS JOB]

D. Technical Skills
Matched Skills: [List technical skills that match THIS JOB'S requirements]
Gaps: [List missing technical skills for THIS JOB]

IMPORTANT FORMATTING RULES:
1. Use square brackets [ ] around lists of items
2. Separate multiple items with commas within the brackets
3. If no skills match, write 'None' inside the brackets: [None]
4. If no gaps, write 'None' inside the brackets: [None]
5. Be specific and detailed in your analysis
6. Focus on skills and experience that directly relate to the job requirements
7. For Company and Role, extract the most relevant information from the job description
8. If company name is not clear, use 'Unknown Company'
9. If role is not clear, use 'Unknown Role'
10. IMPORTANT: Calculate Match Status based on the ATS score you provided above

EXAMPLE FORMAT:
2. ATS Score out of 10
Score: 8

3. Job Details
Company: [Google Inc]
Role: [Senior Software Engineer]
Match Status: [MATCHED]

A. Work Experience
Matched Skills: [Java development, Spring Framework, REST APIs, Database design]
Gaps: [No experience with microservices, No cloud platform experience]

Resume:
`

// GeneralPrompt builds the standalone resume review prompt.
func GeneralPrompt(resumeText string) string {
	return generalPromptTemplate + resumeText
}

// JobMatchPrompt builds the resume-versus-job-description prompt.
func JobMatchPrompt(resumeText, jobDescription string) string {
	return jobMatchPromptTemplate + resumeText + "\n\nJob Description:\n" + jobDescription
}
