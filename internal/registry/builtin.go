package registry

// Built-in templates ship with the binary so plan generation works
// without a template directory. User templates with the same ID
// override them.

// MustParse parses a template literal and panics on error. Only for
// compile-time constants.
func MustParse(content string) *Template {
	tpl, err := Parse(content)
	if err != nil {
		panic(err)
	}
	return tpl
}

// Builtins returns fresh copies of the built-in template set, in fixed
// order with the generic fallback last.
func Builtins() []*Template {
	return []*Template{
		MustParse(technicalDefault),
		MustParse(technicalWebApp),
		MustParse(creativeWriting),
		MustParse(businessDefault),
		MustParse(personalDefault),
		MustParse(educationalDefault),
		MustParse(genericFallback),
	}
}

const technicalDefault = `---
id: technical-default
version: "1.0.0"
name: Technical Project
category: technical
complexity:
  min: simple
  max: expert
priority: 5
estimated_hours: 40
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
  editor:
    source: environment
    key: editor
  parallelism:
    source: tier
    variants:
      constrained: run builds and tests sequentially to stay within memory
      standard: run tests in parallel across available cores
      performance: run full parallel builds, tests, and local services together
---
## Overview
{{project_name}} is a technical project expected to take {{estimated_duration}}.

## Context & Requirements
- [ ] Confirm the problem statement and success criteria
- [ ] Inventory existing code, services, and data the work touches
- [ ] Verify the toolchain in {{editor}} is ready

## Execution Plan
- [ ] Sketch the architecture and break it into milestones
- [ ] Implement the core path first, stubs for the rest
- [ ] Add automated tests alongside each component
- [ ] Integrate, then harden error handling and edge cases

Working style for this machine: {{parallelism}}.

## Success Tracking
- [ ] All automated tests pass
- [ ] Core workflow demonstrated end to end
- [ ] Documentation covers setup and usage

## Adaptation Notes
Scale milestone size to the available time. If scope grows, cut features
before cutting tests.

## Next Immediate Steps
- [ ] Write down the three most important requirements
- [ ] Set up the repository and a walking skeleton
`

const technicalWebApp = `---
id: technical-web-app
version: "1.1.0"
name: Web Application
category: technical
complexity:
  min: moderate
  max: complex
priority: 10
estimated_hours: 60
requires_languages: [node]
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
  bundler:
    source: tier
    variants:
      constrained: esbuild with minimal plugins
      standard: Vite with the default plugin set
      performance: Vite with full type-checking and bundle analysis enabled
  test_strategy:
    source: tier
    variants:
      constrained: unit tests only, run serially
      standard: unit and integration tests
      performance: unit, integration, and browser tests in parallel
---
## Overview
{{project_name}} is a web application. Expect roughly {{estimated_duration}}
from first commit to a deployable build.

## Context & Requirements
- [ ] Define the primary user flows and target browsers
- [ ] Choose the data layer and hosting target
- [ ] Confirm the Node toolchain is installed

## Execution Plan
- [ ] Scaffold the project and configure {{bundler}}
- [ ] Build the routing shell and shared layout
- [ ] Implement each user flow vertically, UI through data
- [ ] Wire up {{test_strategy}}
- [ ] Prepare the production build and deployment pipeline

## Success Tracking
- [ ] Every primary flow works in the target browsers
- [ ] Production build completes clean
- [ ] Test suite green in CI

## Adaptation Notes
On constrained machines prefer fewer dev-server plugins and lazy-load
heavy routes during development.

## Next Immediate Steps
- [ ] Scaffold the repository
- [ ] Get one route rendering end to end
`

const creativeWriting = `---
id: creative-writing
version: "1.0.0"
name: Creative Writing Project
category: creative
complexity:
  min: simple
  max: expert
priority: 5
estimated_hours: 80
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
---
## Overview
{{project_name}} is a creative writing project with an expected span of
{{estimated_duration}}.

## Context & Requirements
- [ ] Define the premise, audience, and intended length
- [ ] Collect reference material and inspiration
- [ ] Decide on a drafting tool and backup routine

## Execution Plan
- [ ] Write a one-page synopsis
- [ ] Develop character and setting outlines
- [ ] Draft a chapter outline with beats per chapter
- [ ] Write the first draft without editing
- [ ] Revise in passes: structure, scenes, prose

## Success Tracking
- [ ] Outline approved before drafting begins
- [ ] Draft word count hits the weekly target
- [ ] Complete draft ready for outside readers

## Adaptation Notes
Protect a fixed daily writing block. When stuck, move to outlining the
next section rather than stopping.

## Next Immediate Steps
- [ ] Write the one-sentence premise
- [ ] Block out the first week's writing schedule
`

const businessDefault = `---
id: business-default
version: "1.0.0"
name: Business Initiative
category: business
complexity:
  min: simple
  max: expert
priority: 5
estimated_hours: 50
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
---
## Overview
{{project_name}} is a business initiative planned for {{estimated_duration}}.

## Context & Requirements
- [ ] Identify stakeholders and the decision maker
- [ ] Quantify the current baseline and the target outcome
- [ ] Confirm budget and resource constraints

## Execution Plan
- [ ] Draft the initiative brief with measurable goals
- [ ] Build the execution timeline with owners per workstream
- [ ] Run the first milestone and review against the baseline
- [ ] Adjust scope based on early results

## Success Tracking
- [ ] Baseline and target metrics agreed in writing
- [ ] Weekly status reviewed with stakeholders
- [ ] Outcome measured against the original target

## Adaptation Notes
If stakeholder alignment slips, pause execution and re-confirm the brief
before spending further budget.

## Next Immediate Steps
- [ ] Schedule the stakeholder kickoff
- [ ] Write the one-page brief
`

const personalDefault = `---
id: personal-default
version: "1.0.0"
name: Personal Project
category: personal
complexity:
  min: simple
  max: expert
priority: 5
estimated_hours: 20
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
---
## Overview
{{project_name}} is a personal project expected to take
{{estimated_duration}}.

## Context & Requirements
- [ ] Clarify what done looks like for you
- [ ] List the people, budget, and dates involved
- [ ] Note any hard deadlines

## Execution Plan
- [ ] Break the goal into weekly steps
- [ ] Handle anything with a booking or lead time first
- [ ] Work through the steps, reviewing each weekend

## Success Tracking
- [ ] Weekly steps checked off on schedule
- [ ] Hard deadlines met
- [ ] End result matches the definition of done

## Adaptation Notes
Life intervenes; when a week slips, re-plan the remaining steps rather
than compressing them.

## Next Immediate Steps
- [ ] Write the definition of done
- [ ] Book anything with a lead time
`

const educationalDefault = `---
id: educational-default
version: "1.0.0"
name: Learning Plan
category: educational
complexity:
  min: simple
  max: expert
priority: 5
estimated_hours: 30
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
---
## Overview
{{project_name}} is a learning goal with an expected span of
{{estimated_duration}}.

## Context & Requirements
- [ ] Define what you should be able to do afterwards
- [ ] Pick one primary resource and one practice outlet
- [ ] Set a realistic weekly hour budget

## Execution Plan
- [ ] Split the material into weekly units
- [ ] Alternate study sessions with hands-on practice
- [ ] Build one small project applying each unit
- [ ] Review and re-test weak areas at the end

## Success Tracking
- [ ] Weekly units completed on schedule
- [ ] Practice projects finished and working
- [ ] Final self-assessment passes

## Adaptation Notes
If a unit takes twice the budgeted time, narrow the goal before adding
hours.

## Next Immediate Steps
- [ ] Choose the primary resource
- [ ] Schedule the first week of sessions
`

const genericFallback = `---
id: generic-fallback
version: "1.0.0"
name: General Plan
category: any
complexity:
  min: simple
  max: expert
priority: 0
estimated_hours: 10
slots:
  project_name:
    source: task
    key: project_name
  estimated_duration:
    source: task
    key: estimated_duration
---
## Overview
{{project_name}} is estimated to take {{estimated_duration}}.

## Context & Requirements
- [ ] Write down the goal in one sentence
- [ ] List what is needed to start
- [ ] Note constraints on time, money, or tools

## Execution Plan
- [ ] Break the goal into three to seven concrete steps
- [ ] Order the steps and estimate each one
- [ ] Complete the steps, reviewing after each

## Success Tracking
- [ ] Each step has a visible result when done
- [ ] Progress reviewed after every step
- [ ] Final result matches the one-sentence goal

## Adaptation Notes
This is a general-purpose plan; replace steps with domain-specific ones
as the work becomes clearer.

## Next Immediate Steps
- [ ] Write the one-sentence goal
- [ ] Define the first concrete step
`
