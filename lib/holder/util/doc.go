// Package util provides small statistical helpers shared by the holder
// implementations, currently the waiter distribution summary reported
// through holder.HolderInfo.
package util
