// Package csvio reads header-keyed CSV files such as the round application
// export and the work-scope override table.
package csvio
