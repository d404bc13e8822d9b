// Package harness runs timing documents against YAML scenarios.
//
// # Scenario Format
//
// A scenario names a document, drives it through a list of steps in virtual
// time and then checks assertions against the resulting session:
//
//	name: seq_basic
//	description: "three chained children"
//	document: |
//	  <div id="root" timeContainer="seq">...</div>
//	session_id: fixed-session
//	steps:
//	  - advance: 7
//	  - select: {container: root, index: 0}
//	  - navigate: "#b&t=2"
//	  - trigger: {element: btn, event: click}
//	  - seek: {container: root, time: 3}
//	assertions:
//	  - {type: state, element: a, expect: active}
//	  - {type: current_index, container: root, expect: 0}
//	  - {type: active_count, container: root, expect: 1}
//	  - {type: event_order, events: [a.begin, a.end, b.begin]}
//	  - {type: event_count, event: a.begin, count: 1}
//
// document_file may replace document; it is resolved relative to the
// scenario file and may be HTML, YAML or CUE.
//
// # Assertion Types
//
//   - state: the time node bound to an element is in the expected state
//   - current_index: a container's current child index
//   - active_count: how many children of a container are active
//   - event_order: the events were published in this relative order
//   - event_count: an event was published exactly count times
//   - fragment: the last fragment written by hash navigation controls
//
// # Deterministic Testing
//
// Scenarios run on the virtual clock with a fixed session id, so the trace
// of a scenario is identical on every run and can be compared against a
// golden file under testdata/golden.
package harness
