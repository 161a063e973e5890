// Package status reconciles PEP statuses.
//
// The PEP index marks each proposal with a one or two letter abbreviation;
// the second letter is a status code. Expected maps those codes to the
// statuses a PEP page may legitimately declare, and Tally counts the statuses
// actually found, in first-seen order, with a synthesized Total row.
package status
